package bridge

import (
	"context"
	"sync"

	"kbridge/internal/transport"
)

// Registry tracks every SinkEndpoint currently open, backing the admin
// gRPC surface's introspection and pause/resume directives.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*SinkEndpoint
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*SinkEndpoint)}
}

// Add registers e and arranges for it to deregister itself on Close.
func (r *Registry) Add(e *SinkEndpoint) {
	r.mu.Lock()
	r.byID[e.Name()] = e
	r.mu.Unlock()
	e.OnClose(func() { r.remove(e.Name()) })
}

func (r *Registry) remove(name string) {
	r.mu.Lock()
	delete(r.byID, name)
	r.mu.Unlock()
}

func (r *Registry) Ping(context.Context, *transport.PingRequest) (*transport.PingReply, error) {
	return &transport.PingReply{Status: "ok"}, nil
}

func (r *Registry) ListEndpoints(context.Context, *transport.ListEndpointsRequest) (*transport.ListEndpointsReply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reply := &transport.ListEndpointsReply{}
	for _, e := range r.byID {
		topic, groupID, partition, qos, deferred := e.Info()
		reply.Endpoints = append(reply.Endpoints, transport.EndpointInfo{
			Name:      e.Name(),
			Topic:     topic,
			GroupID:   groupID,
			Partition: partition,
			QoS:       qos,
			Deferred:  deferred,
		})
	}
	return reply, nil
}

func (r *Registry) Pause(_ context.Context, req *transport.PauseRequest) (*transport.PauseReply, error) {
	r.mu.RLock()
	e, ok := r.byID[req.Name]
	r.mu.RUnlock()
	if !ok {
		return &transport.PauseReply{Ok: false}, nil
	}
	e.PauseWorker()
	return &transport.PauseReply{Ok: true}, nil
}

func (r *Registry) Resume(_ context.Context, req *transport.ResumeRequest) (*transport.ResumeReply, error) {
	r.mu.RLock()
	e, ok := r.byID[req.Name]
	r.mu.RUnlock()
	if !ok {
		return &transport.ResumeReply{Ok: false}, nil
	}
	e.ResumeWorker()
	return &transport.ResumeReply{Ok: true}, nil
}
