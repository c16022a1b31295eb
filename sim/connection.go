package sim

// SendError marks a failed send or receive.
type SendError struct{}

// NewSendError creates a SendError.
func NewSendError() *SendError {
	e := new(SendError)
	return e
}

// A Connection is responsible for delivering messages to their destinations.
type Connection interface {
	Named
	Hookable

	PlugIn(port Port)
	Unplug(port Port)

	// NotifyAvailable is called by a port to signal that it can accept
	// deliveries again.
	NotifyAvailable(port Port)

	// NotifySend is called by a port to signal that it has messages to
	// transfer.
	NotifySend()
}
