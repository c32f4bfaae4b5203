// Package state defines the contracts the trust core expects from its
// hosting ledger: an address-keyed byte store applied atomically under
// a serializable single-writer model, an event sink for notifications,
// and a block-time source. Memory, SQLite and Redis backed stores are
// provided for embedding and testing.
package state

// Store is an address-keyed byte store. The hosting consensus layer
// guarantees that all reads and writes of one invocation are applied
// against a consistent snapshot and become visible as a single batch.
type Store interface {
	// Get returns the value at address. ok is false when the address
	// has never been written.
	Get(address string) (value []byte, ok bool, err error)
	// Set writes value at address, replacing any previous value.
	Set(address string, value []byte) error
}

// Attribute is one ordered key/value pair attached to an event.
type Attribute struct {
	Key   string
	Value string
}

// EventSink receives notification events emitted by the core.
type EventSink interface {
	Emit(eventType string, attributes []Attribute)
}

// TimeSource reports the current ledger time in whole seconds.
type TimeSource interface {
	Now() int64
}

// TimeFunc adapts a plain function to the TimeSource interface.
type TimeFunc func() int64

// Now implements TimeSource.
func (f TimeFunc) Now() int64 { return f() }

// Request is one decoded transaction delivered by the transport layer.
// Signature verification of the sender happens upstream; handlers only
// see the decoded action name, the inner payload and the sender identity.
type Request struct {
	Action  string
	Payload []byte
	Sender  string
}
