package client

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Config locates the tree service.
type Config struct {
	BaseURL *url.URL
	// Timeout bounds each request. Zero means requests wait until the
	// service answers or the caller's context is done.
	Timeout time.Duration
}

type InvalidConfigError struct {
	reason string
}

func NewInvalidConfigError(reason string) InvalidConfigError {
	return InvalidConfigError{reason: reason}
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid client config: %s", e.reason)
}

// NewConfig validates the service address and timeout.
func NewConfig(baseURL string, timeout time.Duration) (Config, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Config{}, errors.Wrap(NewInvalidConfigError(err.Error()), "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Config{}, NewInvalidConfigError(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return Config{}, NewInvalidConfigError("missing host")
	}
	if timeout < 0 {
		return Config{}, NewInvalidConfigError(fmt.Sprintf("negative timeout %v", timeout))
	}
	return Config{BaseURL: u, Timeout: timeout}, nil
}
