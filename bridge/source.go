package bridge

// SourceEndpoint would be the receiver-role counterpart of SinkEndpoint,
// accepting AMQP transfers from a producer and publishing them to Kafka.
// It is an external collaborator this bridge only needs to address by
// name, not implement: the connection acceptor routes attaches for
// sender-role remote links here, and everything past Open is out of
// scope. It exists only so the acceptor has a concrete Endpoint to
// construct while wiring sink and source links through the same
// attach-dispatch path.
type SourceEndpoint struct {
	name string
}

func NewSourceEndpoint(name string) *SourceEndpoint {
	return &SourceEndpoint{name: name}
}

func (s *SourceEndpoint) Name() string { return s.name }

func (s *SourceEndpoint) Open() error { return nil }

func (s *SourceEndpoint) Close() {}
