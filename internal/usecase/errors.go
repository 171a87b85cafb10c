package usecase

import "fmt"

// ConfigError means a required credential or identifier is missing.
// Fatal: callers fail fast before issuing any network call.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func NewConfigError(field string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: fmt.Sprintf("missing required configuration: %s", field),
	}
}

func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}

// UpstreamError means a record-store or accounting-API call failed. It
// is reported to the caller with enough context to retry manually and
// never crashes the process.
type UpstreamError struct {
	Service string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(service, message string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Message: message, Err: err}
}

func IsUpstreamError(err error) bool {
	_, ok := err.(*UpstreamError)
	return ok
}
