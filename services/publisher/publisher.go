package publisher

// Publisher announces stored offers to the read side of the system.
type Publisher interface {
	// Publish publishes a message to a stream under the merchant key
	Publish(merchant string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
