// Package errors defines the failure kinds of a spectro-connect
// invocation.
//
// Every kind is terminal: the tool never retries, it reports the
// offending input and exits. Callers match kinds with [Is] against the
// sentinels below; the structured types carry the context needed for a
// single actionable error line.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── Sentinel failure kinds ───────────────────────────────────────────

var (
	ErrInvalidInput         = errors.New("invalid target")
	ErrNotFound             = errors.New("no matching device")
	ErrAmbiguous            = errors.New("multiple matching devices")
	ErrUpstreamUnavailable  = errors.New("spectrum api unavailable")
	ErrAPIClientUnavailable = errors.New("spectrum api not configured")
	ErrMissingRelayHost     = errors.New("spectroserver host not configured")
	ErrInvalidAddress       = errors.New("invalid IPv4 address")
)

// ── Structured error types ───────────────────────────────────────────

// LookupError reports a failed device-name resolution. Kind is one of
// ErrNotFound, ErrAmbiguous, or ErrUpstreamUnavailable.
type LookupError struct {
	Name    string   // the name the operator asked for
	Matches []string // candidate "name (ip)" lines, sorted; ambiguous only
	Kind    error
}

func (e *LookupError) Error() string {
	s := fmt.Sprintf("%v for %q", e.Kind, e.Name)
	if len(e.Matches) > 0 {
		s += ":\n  " + strings.Join(e.Matches, "\n  ")
	}
	return s
}

func (e *LookupError) Unwrap() error { return e.Kind }

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Field   string // flag or environment variable name
	Message string
	Hint    string // suggestion for the operator (optional)
	Kind    error  // sentinel kind, if one applies
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: %s: %s", e.Field, e.Message)
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Kind }

// ── Re-exports for convenience ───────────────────────────────────────
//
// These let the rest of the module use this package as a drop-in for
// the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
