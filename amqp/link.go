// Package amqp models the AMQP 1.0-side contract the bridge's sink
// endpoint depends on: the sender-role link handle the connection
// acceptor hands off at attach time, and the pure message converter.
//
// The acceptor itself — accepting TCP connections, running the SASL and
// AMQP open/begin/attach handshake — is an external collaborator and is
// not implemented here; Link is the seam a real acceptor implementation
// plugs into.
package amqp

import (
	"errors"

	goamqp "github.com/Azure/go-amqp"
)

// QoS is the link's negotiated settlement mode.
type QoS int

const (
	QoSSettled QoS = iota
	QoSUnsettled
)

func (q QoS) String() string {
	if q == QoSSettled {
		return "settled"
	}
	return "unsettled"
}

// Outcome is the terminal disposition state for an unsettled transfer.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeRejected
	OutcomeReleased
	OutcomeModified
)

// Role mirrors the AMQP link role as seen from the remote peer's attach
// frame: RoleSender means the remote peer is a sender (source endpoint
// territory), RoleReceiver means the remote peer is a receiver, which is
// exactly the sink endpoint's case — the bridge is the sender.
type Role int

const (
	RoleSender Role = iota
	RoleReceiver
)

// ErrInvalidLinkRole is returned by anything that requires a sender-role
// link (a receiver-role remote peer) but was handed a sender-role remote
// peer instead.
var ErrInvalidLinkRole = errors.New("amqp: link must be a sender")

// Source is the remote source terminus presented at attach time: the
// address string plus whatever filter map the peer attached. Filter values
// arrive as untyped dynamic data and must be validated explicitly by
// ValidateFilters, never coerced.
type Source struct {
	Address string
	Filters map[string]any
}

// Link is the sender-role AMQP link handle owned by the connection
// acceptor. A sink endpoint only ever calls Send and SendQueueFull from its
// own dispatcher goroutine; the attach-time methods are called from Open,
// and Close also from the endpoint's own Close.
type Link interface {
	Role() Role
	RemoteSource() Source
	SetSource(Source)
	QoS() QoS

	// SendQueueFull reports whether the remote receiver currently has no
	// credit outstanding.
	SendQueueFull() bool

	// Send transmits msg tagged with tag. onDisposition is nil for
	// settled sends (fire-and-forget); for unsettled sends it is invoked
	// exactly once, from the acceptor's I/O context, when a terminal
	// disposition arrives.
	Send(tag string, msg *goamqp.Message, onDisposition func(Outcome)) error

	// OnSendQueueDrain registers the callback invoked when credit
	// becomes available again after having been exhausted.
	OnSendQueueDrain(func())

	// OnRemoteClose registers the callback invoked when the remote peer
	// detaches the link.
	OnRemoteClose(func())

	// Open completes the attach with the source set via SetSource.
	Open() error

	// Close closes the link, optionally attaching an error condition.
	Close(err *goamqp.Error) error
}
