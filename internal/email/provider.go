package email

// Provider abstracts the delivery channel. The dispatcher renders the
// message first; providers only move bytes.
type Provider interface {
	// Send delivers one message.
	Send(email *Email) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases the provider's resources.
	Close() error
}
