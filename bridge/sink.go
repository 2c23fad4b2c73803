package bridge

import (
	"context"
	"sync"
	"time"

	goamqp "github.com/Azure/go-amqp"
	"github.com/google/uuid"

	"kbridge/amqp"
	"kbridge/internal/logging"
	"kbridge/internal/telemetry"
	"kbridge/kafka"
)

// worker is the subset of *kafka.Worker a SinkEndpoint depends on,
// narrowed to an interface so tests can substitute a fake instead of
// dialing a real Kafka cluster.
type worker interface {
	Start(context.Context) error
	Pause()
	Resume()
	Close() error
}

// ClusterConfig is the subset of the bridge's global configuration every
// sink endpoint inherits when it derives its kafka.EndpointConfig from an
// attach.
type ClusterConfig struct {
	Brokers          []string
	Version          string
	TLSEnabled       bool
	SASLUser         string
	SASLPass         string
	AutoOffsetReset  string
	CommitInterval   time.Duration
	EnableAutoCommit bool
}

// SinkEndpoint is the link controller: it owns one AMQP link, one Kafka
// consumer worker, and the bus/store/tracker/deferred queue that connect
// them, and it is the only thing that ever calls the link's
// Send/SendQueueFull methods, always from its own dispatcher goroutine.
//
// The address/filter validation order, the settled-vs-unsettled dispatch
// split, and the deferred-queue drain-then-resume loop follow the usual
// shape of a sink-side AMQP bridge endpoint, adapted onto the Bus/Store
// pair the Kafka worker plumbing here uses instead of an event-bus
// callback.
type SinkEndpoint struct {
	name      string
	link      amqp.Link
	converter amqp.Converter
	cluster   ClusterConfig

	bus       *kafka.Bus
	store     *kafka.Store[kafka.Record]
	tracker   *kafka.OffsetTracker
	gate      *kafka.Gate
	worker    worker
	sendTimes *kafka.Store[time.Time]

	mu         sync.Mutex
	deferred   []kafka.Token
	paused     bool
	closed     bool
	linkClosed bool

	topic     string
	groupID   string
	partition *int32
	qos       amqp.QoS

	done       chan struct{}
	onCloseFns []func()
}

func NewSinkEndpoint(link amqp.Link, converter amqp.Converter, cluster ClusterConfig) *SinkEndpoint {
	return &SinkEndpoint{
		name:      uuid.NewString(),
		link:      link,
		converter: converter,
		cluster:   cluster,
		bus:       kafka.NewBus(),
		store:     kafka.NewStore[kafka.Record](),
		tracker:   kafka.NewOffsetTracker(),
		gate:      kafka.NewGate(),
		sendTimes: kafka.NewStore[time.Time](),
		done:      make(chan struct{}),
	}
}

func (e *SinkEndpoint) Name() string { return e.name }

// Open validates the remote link's role and source address, then the
// filters, and only once both pass does it start the consumer worker and
// complete the attach. A wrong-role remote link is rejected before any of
// the sink-endpoint machinery — link, worker, bus — is touched, since a
// sender-role remote peer was never a candidate for a sink endpoint in the
// first place.
func (e *SinkEndpoint) Open() error {
	if e.link.Role() != amqp.RoleReceiver {
		return amqp.ErrInvalidLinkRole
	}

	source := e.link.RemoteSource()
	topic, groupID, addrErr := amqp.ParseAddress(source.Address)
	if addrErr != nil {
		e.link.Close(amqp.NewError(addrErr.Condition, addrErr.Description))
		return addrErr
	}

	filters, addrErr := amqp.ValidateFilters(source.Filters)
	if addrErr != nil {
		e.link.Close(amqp.NewError(addrErr.Condition, addrErr.Description))
		return addrErr
	}

	e.topic, e.groupID, e.partition = topic, groupID, filters.Partition
	e.qos = e.link.QoS()

	// Settled links never wait for a disposition, so there's no Kafka
	// offset commit driven by AMQP feedback for them; the worker marks
	// every record as consumed on its own, using auto-commit if
	// configured. Unsettled links always commit from the offset tracker's
	// frontier regardless of the auto-commit setting.
	commitMode := kafka.CommitManual
	if e.qos == amqp.QoSSettled {
		commitMode = kafka.CommitAuto
	}

	cfg := kafka.EndpointConfig{
		Brokers:          e.cluster.Brokers,
		Version:          e.cluster.Version,
		TLSEnabled:       e.cluster.TLSEnabled,
		SASLUser:         e.cluster.SASLUser,
		SASLPass:         e.cluster.SASLPass,
		Topic:            topic,
		GroupID:          groupID,
		Partition:        filters.Partition,
		Offset:           filters.Offset,
		AutoOffsetReset:  e.cluster.AutoOffsetReset,
		CommitMode:       commitMode,
		CommitInterval:   e.cluster.CommitInterval,
		EnableAutoCommit: e.cluster.EnableAutoCommit,
	}
	e.worker = kafka.NewWorker(cfg, e.bus, e.store, e.tracker, e.gate)

	e.link.SetSource(source)
	if err := e.link.Open(); err != nil {
		return err
	}

	e.link.OnSendQueueDrain(func() {
		e.bus.Publish(kafka.Message{Headers: map[string]string{kafka.HeaderRequest: kafka.RequestDrain}})
	})
	e.link.OnRemoteClose(func() { e.Close() })

	if err := e.worker.Start(context.Background()); err != nil {
		e.link.Close(amqp.NewError(amqp.ConditionPartitionsNotExist, err.Error()))
		return err
	}

	go e.bus.Run(e.done, e.handle)

	telemetry.ActiveEndpoints.Inc()
	logging.L().Info("sink endpoint opened", "endpoint", e.name, "topic", topic, "group", groupID, "qos", e.qos.String())
	return nil
}

// handle runs on the dispatcher goroutine only. It is the single place
// that ever calls e.link.Send or e.link.SendQueueFull, satisfying the
// invariant that a link's send-side is only ever touched from one
// goroutine.
func (e *SinkEndpoint) handle(msg kafka.Message) {
	switch msg.Headers[kafka.HeaderRequest] {
	case kafka.RequestError:
		e.closeLink(amqp.NewError(goamqp.ErrCond(msg.Headers[kafka.HeaderErrorAMQP]), msg.Headers[kafka.HeaderErrorDesc]))
		e.Close()

	case kafka.RequestDrain:
		e.drainDeferred()

	case kafka.RequestSend:
		e.dispatchOrDefer(msg.Body)
	}
}

// closeLink closes the underlying link with err exactly once; a second
// call, from Close's own unconditional teardown, becomes a no-op so it
// can't clobber the first error condition with a plain close.
func (e *SinkEndpoint) closeLink(err *goamqp.Error) {
	e.mu.Lock()
	if e.linkClosed {
		e.mu.Unlock()
		return
	}
	e.linkClosed = true
	e.mu.Unlock()
	_ = e.link.Close(err)
}

func (e *SinkEndpoint) dispatchOrDefer(tok kafka.Token) {
	if e.link.SendQueueFull() {
		e.mu.Lock()
		e.deferred = append(e.deferred, tok)
		depth := len(e.deferred)
		if !e.paused {
			e.paused = true
			e.worker.Pause()
		}
		e.mu.Unlock()
		telemetry.DeferredQueueDepth.WithLabelValues(e.name).Set(float64(depth))
		return
	}
	e.sendToken(tok)
}

// drainDeferred is the processSendQueueDrain equivalent: flush every
// deferred token the link now has credit for, then resume the consumer
// worker once the queue is empty again.
func (e *SinkEndpoint) drainDeferred() {
	for {
		e.mu.Lock()
		if len(e.deferred) == 0 || e.link.SendQueueFull() {
			empty := len(e.deferred) == 0
			e.mu.Unlock()
			if empty && e.resumeIfPaused() {
				telemetry.DeferredQueueDepth.WithLabelValues(e.name).Set(0)
			}
			return
		}
		tok := e.deferred[0]
		e.deferred = e.deferred[1:]
		depth := len(e.deferred)
		e.mu.Unlock()
		telemetry.DeferredQueueDepth.WithLabelValues(e.name).Set(float64(depth))
		e.sendToken(tok)
	}
}

func (e *SinkEndpoint) resumeIfPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused {
		return false
	}
	e.paused = false
	e.worker.Resume()
	return true
}

// sendToken converts and sends the record stored under tok. Settled QoS
// forgets the delivery the instant Send returns, giving at-most-once
// delivery; unsettled QoS tracks it first so the eventual disposition can
// advance the offset frontier.
func (e *SinkEndpoint) sendToken(tok kafka.Token) {
	rec, ok := e.store.Remove(tok)
	if !ok {
		return
	}
	msg, err := e.converter.ToAMQP(rec)
	if err != nil {
		logging.L().Warn("sink endpoint: conversion failed, dropping record", "endpoint", e.name, "topic", rec.Topic, "partition", rec.Partition, "offset", rec.Offset, "error", err)
		return
	}

	if e.qos == amqp.QoSSettled {
		_ = e.link.Send(tok, msg, nil)
		telemetry.RecordsDelivered.WithLabelValues(rec.Topic).Inc()
		return
	}

	e.tracker.Track(tok, rec)
	e.sendTimes.Put(tok, time.Now())
	err = e.link.Send(tok, msg, func(outcome amqp.Outcome) {
		e.onDisposition(tok, rec.Topic, outcome)
	})
	if err != nil {
		e.tracker.Delivered(tok)
		return
	}
	telemetry.RecordsDelivered.WithLabelValues(rec.Topic).Inc()
}

// onDisposition runs on the acceptor's I/O goroutine, per the Link
// contract. OffsetTracker and the send-time Store are both internally
// synchronized, so no bouncing through the Bus is needed here; any
// terminal outcome, accepted or not, still means the receiver is done
// with the delivery, so the frontier advances regardless of outcome.
func (e *SinkEndpoint) onDisposition(tok kafka.Token, topic string, outcome amqp.Outcome) {
	e.tracker.Delivered(tok)
	if sentAt, ok := e.sendTimes.Remove(tok); ok {
		telemetry.DispositionLatency.WithLabelValues(topic).Observe(time.Since(sentAt).Seconds())
	}
	if outcome == amqp.OutcomeRejected || outcome == amqp.OutcomeModified {
		logging.L().Info("sink endpoint: transfer not accepted", "endpoint", e.name, "outcome", outcome)
	}
}

// Info reports this endpoint's admin-visible state.
func (e *SinkEndpoint) Info() (topic, groupID string, partition *int32, qos string, deferred int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.topic, e.groupID, e.partition, e.qos.String(), len(e.deferred)
}

func (e *SinkEndpoint) PauseWorker() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
	if e.worker != nil {
		e.worker.Pause()
	}
}

func (e *SinkEndpoint) ResumeWorker() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	if e.worker != nil {
		e.worker.Resume()
	}
}

// OnClose registers a callback invoked once, when Close runs for the
// first time; Registry uses it to deregister the endpoint.
func (e *SinkEndpoint) OnClose(fn func()) {
	e.mu.Lock()
	e.onCloseFns = append(e.onCloseFns, fn)
	e.mu.Unlock()
}

// Close idempotently tears the endpoint down: stop the worker, stop the
// dispatcher, release the Kafka resources, and detach the link.
func (e *SinkEndpoint) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	fns := e.onCloseFns
	e.mu.Unlock()

	if e.worker != nil {
		_ = e.worker.Close()
	}
	e.bus.Close()
	close(e.done)
	e.store.Clear()
	e.sendTimes.Clear()
	e.tracker.Clear()
	e.gate.Close()
	e.closeLink(nil)

	telemetry.ActiveEndpoints.Dec()
	logging.L().Info("sink endpoint closed", "endpoint", e.name)

	for _, fn := range fns {
		fn()
	}
}
