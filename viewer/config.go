package viewer

import "fmt"

const DefaultQueueDepth = 16

type Config struct {
	// QueueDepth is how many actions a page may have in flight before
	// reading from its socket pauses.
	QueueDepth int
}

type InvalidConfigError struct {
	reason string
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid viewer config: %s", e.reason)
}

func NewInvalidConfigError(reason string) InvalidConfigError {
	return InvalidConfigError{reason: reason}
}

func NewConfig(queueDepth int) (Config, error) {
	if queueDepth <= 0 {
		return Config{}, NewInvalidConfigError("queueDepth must be positive")
	}
	return Config{QueueDepth: queueDepth}, nil
}
