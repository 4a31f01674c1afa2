package service

import "fmt"

const DefaultCacheSize = 256

type Config struct {
	// CacheSize is how many live trees are kept in memory. Evicted trees
	// are rebuilt from storage on next use.
	CacheSize int
}

type InvalidConfigError struct {
	reason string
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid service config: %s", e.reason)
}

func NewInvalidConfigError(reason string) InvalidConfigError {
	return InvalidConfigError{reason: reason}
}

func NewConfig(cacheSize int) (Config, error) {
	if cacheSize <= 0 {
		return Config{}, NewInvalidConfigError("cacheSize must be positive")
	}
	return Config{CacheSize: cacheSize}, nil
}
