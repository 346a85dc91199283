package config

import (
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("API key not found, add it to the config file (api_key), api_key.txt or EMA_API_KEY")

// Error is a configuration problem found at startup.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
