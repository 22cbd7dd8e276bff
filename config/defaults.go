package config

import "time"

// ── Default values ───────────────────────────────────────────────────

const (
	// DefaultSpectroPort is the SpectroServer relay listening port.
	DefaultSpectroPort = 31415

	// DefaultAPITimeout bounds a single Spectrum lookup. An
	// interactive tool must fail fast rather than leave the operator
	// waiting on an unreachable manager.
	DefaultAPITimeout = 15 * time.Second

	// DefaultLocalAddress is where the proxy socket binds.
	DefaultLocalAddress = "127.0.0.1"
)
