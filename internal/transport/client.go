package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// AdminClient is the client-side counterpart to AdminServer.
type AdminClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingReply, error)
	ListEndpoints(ctx context.Context, in *ListEndpointsRequest, opts ...grpc.CallOption) (*ListEndpointsReply, error)
	Pause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*PauseReply, error)
	Resume(ctx context.Context, in *ResumeRequest, opts ...grpc.CallOption) (*ResumeReply, error)
}

type adminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) AdminClient {
	return &adminClient{cc}
}

func (c *adminClient) callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}

func (c *adminClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingReply, error) {
	out := new(PingReply)
	if err := c.cc.Invoke(ctx, adminPingFullMethodName, in, out, c.callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminClient) ListEndpoints(ctx context.Context, in *ListEndpointsRequest, opts ...grpc.CallOption) (*ListEndpointsReply, error) {
	out := new(ListEndpointsReply)
	if err := c.cc.Invoke(ctx, adminListEndpointsFullMethodName, in, out, c.callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminClient) Pause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*PauseReply, error) {
	out := new(PauseReply)
	if err := c.cc.Invoke(ctx, adminPauseFullMethodName, in, out, c.callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminClient) Resume(ctx context.Context, in *ResumeRequest, opts ...grpc.CallOption) (*ResumeReply, error) {
	out := new(ResumeReply)
	if err := c.cc.Invoke(ctx, adminResumeFullMethodName, in, out, c.callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// Dial connects to the bridge's admin service on localhost:port. The
// connection is unauthenticated; the admin surface is meant to be reached
// only from the same host or through an operator-controlled tunnel.
func Dial(port int) (AdminClient, error) {
	cc, err := grpc.NewClient(fmt.Sprintf("localhost:%d", port), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return NewAdminClient(cc), nil
}
