package kiwi

import "fmt"

// InvalidArgumentError reports a malformed argument or option combination.
// These are surfaced immediately and never retried.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

func invalidArgf(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports that the loaded engine build lacks an optional
// entry point. Capability names the missing feature so callers can
// feature-detect instead of parsing messages.
type UnsupportedError struct {
	Capability string
}

func (e *UnsupportedError) Error() string {
	return "unsupported operation: engine build lacks " + e.Capability
}

// EngineError reports a failure inside the native engine. Message carries the
// engine's own error text when one was available.
type EngineError struct {
	Op      string
	Message string
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return "engine error: " + e.Op + " failed"
	}
	return "engine error: " + e.Op + ": " + e.Message
}
