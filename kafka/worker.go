package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"kbridge/internal/logging"
	"kbridge/internal/telemetry"
)

// ErrNoPartitions is published on the Bus as an error message when the
// endpoint's requested partition, or the topic itself, doesn't exist.
var ErrNoPartitions = errors.New("kafka: requested partition does not exist")

// ConditionPartitionsNotExist mirrors amqp.ConditionPartitionsNotExist's
// value. This package cannot import amqp (amqp imports kafka), so the
// bridge-owned condition symbol a worker ever publishes is duplicated here
// as a plain string; bridge.SinkEndpoint.handle attaches it verbatim to
// the AMQP close error.
const ConditionPartitionsNotExist = "partitions-not-exists"

// Worker is one goroutine per sink endpoint that either joins a consumer
// group (no partition filter) or self-assigns a single partition
// (partition filter present, optionally seeking to an offset filter), and
// publishes every record it polls onto the endpoint's Bus, storing the
// record itself in the endpoint's Store under a freshly generated Token.
//
// The group-membership, config translation and Setup/Cleanup/ConsumeClaim
// shape follow the usual sarama consumer-group handler pattern, generalized
// to the two subscription modes this bridge's address filters demand and
// wired to publish through a Bus and Store instead of a plain callback.
type Worker struct {
	cfg   EndpointConfig
	bus   *Bus
	store *Store[Record]
	tr    *OffsetTracker
	gate  *Gate

	client sarama.Client
	group  sarama.ConsumerGroup
	pom    sarama.PartitionOffsetManager
	om     sarama.OffsetManager

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(cfg EndpointConfig, bus *Bus, store *Store[Record], tr *OffsetTracker, gate *Gate) *Worker {
	return &Worker{cfg: cfg, bus: bus, store: store, tr: tr, gate: gate}
}

func (w *Worker) saramaConfig() (*sarama.Config, error) {
	ver, err := sarama.ParseKafkaVersion(w.cfg.Version)
	if err != nil {
		return nil, err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if w.cfg.TLSEnabled {
		sc.Net.TLS.Enable = true
	}
	if w.cfg.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User = w.cfg.SASLUser
		sc.Net.SASL.Password = w.cfg.SASLPass
	}
	switch w.cfg.AutoOffsetReset {
	case "earliest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	// Marked offsets only reach Kafka through sarama's auto-commit, so a
	// CommitManual endpoint always enables it to flush the tracker's
	// frontier; CommitAuto endpoints follow EnableAutoCommit.
	sc.Consumer.Offsets.AutoCommit.Enable = w.cfg.EnableAutoCommit || w.cfg.CommitMode == CommitManual
	sc.Consumer.Offsets.AutoCommit.Interval = w.cfg.commitInterval()
	return sc, nil
}

// Start dials the cluster and begins polling. It returns once the initial
// connection and subscription are established; delivery continues on
// background goroutines until Close is called.
func (w *Worker) Start(ctx context.Context) error {
	sc, err := w.saramaConfig()
	if err != nil {
		return err
	}
	client, err := sarama.NewClient(w.cfg.Brokers, sc)
	if err != nil {
		return err
	}
	w.client = client

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	if w.cfg.Partition != nil {
		return w.startDirect(runCtx, *w.cfg.Partition)
	}
	return w.startGroup(runCtx)
}

// startDirect self-assigns a single partition, seeking to the offset
// filter when one was given.
func (w *Worker) startDirect(ctx context.Context, partition int32) error {
	partitions, err := w.client.Partitions(w.cfg.Topic)
	if err != nil {
		return err
	}
	found := false
	for _, p := range partitions {
		if p == partition {
			found = true
			break
		}
	}
	if !found {
		w.bus.Publish(errorMessage(ConditionPartitionsNotExist, ErrNoPartitions.Error()))
		return ErrNoPartitions
	}

	consumer, err := sarama.NewConsumerFromClient(w.client)
	if err != nil {
		return err
	}

	offset := sarama.OffsetNewest
	if w.cfg.AutoOffsetReset == "earliest" {
		offset = sarama.OffsetOldest
	}
	if w.cfg.Offset != nil {
		offset = *w.cfg.Offset
	}

	pc, err := consumer.ConsumePartition(w.cfg.Topic, partition, offset)
	if err != nil {
		_ = consumer.Close()
		return err
	}

	om, err := sarama.NewOffsetManagerFromClient(w.cfg.GroupID, w.client)
	if err != nil {
		_ = pc.Close()
		_ = consumer.Close()
		return err
	}
	w.om = om
	pom, err := om.ManagePartition(w.cfg.Topic, partition)
	if err != nil {
		_ = om.Close()
		_ = pc.Close()
		_ = consumer.Close()
		return err
	}
	w.pom = pom

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			_ = pc.Close()
			_ = consumer.Close()
		}()
		w.pollLoop(ctx, pc.Messages(), pc.Errors(), func(p int32, offset int64) {
			// PartitionOffsetManager.MarkOffset, like ConsumerGroupSession.MarkOffset,
			// takes the next offset to resume from, not the last one consumed.
			pom.MarkOffset(offset+1, "")
		})
	}()
	return nil
}

// startGroup joins the endpoint's consumer group. Like startDirect, it
// checks the topic actually has partitions before joining: an absent topic
// otherwise leaves group.Consume looping forever on a metadata warning
// instead of ever escalating to the endpoint.
func (w *Worker) startGroup(ctx context.Context) error {
	partitions, err := w.client.Partitions(w.cfg.Topic)
	if err != nil || len(partitions) == 0 {
		w.bus.Publish(errorMessage(ConditionPartitionsNotExist, ErrNoPartitions.Error()))
		return ErrNoPartitions
	}

	group, err := sarama.NewConsumerGroupFromClient(w.cfg.GroupID, w.client)
	if err != nil {
		return err
	}
	w.group = group

	handler := &groupHandler{w: w}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			if err := group.Consume(ctx, []string{w.cfg.Topic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				logging.L().Warn("kafka worker: group consume error", "topic", w.cfg.Topic, "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return nil
}

type groupHandler struct {
	w *Worker
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	mark := func(partition int32, offset int64) {
		sess.MarkOffset(h.w.cfg.Topic, partition, offset+1, "")
	}
	return h.w.pollLoop(sess.Context(), claim.Messages(), nil, mark)
}

// pollLoop is the shared poll body for both subscription modes: wait out
// a pause, read one message or error, publish it, and periodically flush
// the offset tracker's advanced frontier via mark.
func (w *Worker) pollLoop(ctx context.Context, messages <-chan *sarama.ConsumerMessage, errs <-chan *sarama.ConsumerError, mark func(partition int32, offset int64)) error {
	ticker := time.NewTicker(w.cfg.commitInterval())
	defer ticker.Stop()

	for {
		w.gate.Wait()

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			w.flushCommits(mark)

		case cerr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logging.L().Warn("kafka worker: consumer error", "error", cerr)

		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.publish(msg)
			if w.cfg.CommitMode == CommitAuto {
				// Settled sends are forgotten the instant they're handed to
				// the link, so there's no disposition to wait for: mark
				// the offset consumed as soon as it's been read off the
				// partition.
				mark(msg.Partition, msg.Offset)
				telemetry.OffsetsCommitted.WithLabelValues(msg.Topic).Inc()
			}
		}
	}
}

func (w *Worker) publish(msg *sarama.ConsumerMessage) {
	rec := Record{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       string(msg.Key),
		Value:     msg.Value,
		Headers:   headersOf(msg.Headers),
	}
	tok := uuid.NewString()
	w.store.Put(tok, rec)
	w.bus.Publish(Message{Body: tok, Headers: map[string]string{HeaderRequest: RequestSend}})
}

func (w *Worker) flushCommits(mark func(partition int32, offset int64)) {
	if w.cfg.CommitMode != CommitManual {
		return
	}
	for partition, nextOffset := range w.tr.Snapshot() {
		mark(partition, nextOffset-1)
		w.tr.Commit(partition, nextOffset)
		telemetry.OffsetsCommitted.WithLabelValues(w.cfg.Topic).Inc()
	}
}

func headersOf(src []*sarama.RecordHeader) map[string][]byte {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]byte, len(src))
	for _, h := range src {
		out[string(h.Key)] = h.Value
	}
	return out
}

func errorMessage(condition, desc string) Message {
	return Message{Headers: map[string]string{
		HeaderRequest:   RequestError,
		HeaderErrorAMQP: condition,
		HeaderErrorDesc: desc,
	}}
}

// Pause and Resume implement AMQP credit-exhaustion backpressure: the
// dispatcher goroutine calls Pause when the link's send queue is full and
// Resume once it drains.
func (w *Worker) Pause()  { w.gate.Pause() }
func (w *Worker) Resume() { w.gate.Resume() }

// Close stops polling and releases the underlying sarama client. Safe to
// call once; a second call is a no-op beyond returning cached errors.
func (w *Worker) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.gate.Close()
	w.wg.Wait()

	if w.pom != nil {
		_ = w.pom.Close()
	}
	if w.om != nil {
		_ = w.om.Close()
	}
	if w.group != nil {
		_ = w.group.Close()
	}
	if w.client != nil {
		return w.client.Close()
	}
	return nil
}
