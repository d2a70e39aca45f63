package channel

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("channel configuration error")

// ConfigurationError reports a channel missing an attribute that a
// requested pass depends on.
type ConfigurationError struct {
	Channel   string
	Attribute string
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s does not have %s", e.Channel, e.Attribute)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
