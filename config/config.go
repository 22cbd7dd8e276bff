// Package config defines the runtime configuration for spectro-connect
// and loads the Spectrum / SpectroServer environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	cerr "github.com/johnrdowson/spectro-connect/internal/errors"
	"github.com/johnrdowson/spectro-connect/internal/target"
)

// Config holds every tuneable for a single invocation.
type Config struct {
	// ── Target ───────────────────────────────────────────────────────
	Target string // device IP or Spectrum model name

	// ── Spectrum manager API ─────────────────────────────────────────
	SpectrumURL      string
	SpectrumUsername string
	SpectrumPassword string
	APITimeout       time.Duration

	// ── SpectroServer relay ──────────────────────────────────────────
	SpectroHost string
	SpectroPort int

	// ── Session ──────────────────────────────────────────────────────
	DevicePort       int    // 0 = protocol default
	LocalPort        int    // 0 = ephemeral
	Telnet           bool   // -t: force Telnet
	Native           bool   // --native: in-process SSH session
	Username         string // --user: skip the username prompt
	ProxyOnly        bool   // -x: print the proxy socket, don't launch
	TelnetFamilyFile string // extra Telnet-only NCM families (YAML)

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// FromEnv returns a Config pre-populated from the environment:
// SPECTRUM_URL, SPECTRUM_USERNAME, SPECTRUM_PASSWORD,
// SPECTROSERVER_HOST, and SPECTROSERVER_PORT.
func FromEnv() *Config {
	cfg := &Config{
		SpectrumURL:      os.Getenv("SPECTRUM_URL"),
		SpectrumUsername: os.Getenv("SPECTRUM_USERNAME"),
		SpectrumPassword: os.Getenv("SPECTRUM_PASSWORD"),
		SpectroHost:      os.Getenv("SPECTROSERVER_HOST"),
		SpectroPort:      DefaultSpectroPort,
		APITimeout:       DefaultAPITimeout,
	}
	if v := os.Getenv("SPECTROSERVER_PORT"); v != "" {
		if port, err := ParsePort(v); err == nil {
			cfg.SpectroPort = port
		}
	}
	return cfg
}

// SpectrumConfigured reports whether the manager API is fully
// configured; name lookups are impossible without all three values.
func (c *Config) SpectrumConfigured() bool {
	return c.SpectrumURL != "" && c.SpectrumUsername != "" && c.SpectrumPassword != ""
}

// ParsePort parses a TCP port, rejecting anything outside 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// Validate checks that the configuration can produce a session.
func (c *Config) Validate() error {
	kind, err := target.Classify(c.Target)
	if err != nil {
		return err
	}

	if kind == target.KindName && !c.SpectrumConfigured() {
		return &cerr.ConfigError{
			Field:   "SPECTRUM_URL",
			Message: fmt.Sprintf("cannot look up %q without Spectrum credentials", c.Target),
			Hint:    "set SPECTRUM_URL, SPECTRUM_USERNAME and SPECTRUM_PASSWORD, or target an IP address",
			Kind:    cerr.ErrAPIClientUnavailable,
		}
	}

	if c.SpectroHost == "" {
		return &cerr.ConfigError{
			Field:   "SPECTROSERVER_HOST",
			Message: "no SpectroServer host",
			Hint:    `pass -s (e.g. "-s 10.20.30.4") or set the SPECTROSERVER_HOST environment variable`,
			Kind:    cerr.ErrMissingRelayHost,
		}
	}

	if c.Native && c.Telnet {
		return &cerr.ConfigError{
			Field:   "--native",
			Message: "native sessions support SSH only",
			Hint:    "drop -t or use the external telnet client",
		}
	}

	return nil
}
