// Package bridge implements the sink endpoint: the per-link controller
// that owns a Kafka consumer worker and drives an AMQP sender-role link
// according to the link's negotiated QoS and credit state.
package bridge

// Endpoint is the lifecycle contract shared by every kind of bridge
// endpoint bound to an AMQP link.
type Endpoint interface {
	// Open validates the link's remote source, starts the endpoint's
	// Kafka-side resources, and completes the AMQP attach. A non-nil
	// error for an invalid address, invalid filters or a failed worker
	// start means the link has already been closed with an appropriate
	// error condition; a wrong-role link is rejected with
	// amqp.ErrInvalidLinkRole and left untouched.
	Open() error

	// Close tears down Kafka-side resources and detaches from the link,
	// idempotently.
	Close()

	// Name identifies the endpoint for the admin surface and logs; it is
	// unique for the lifetime of the process.
	Name() string
}
