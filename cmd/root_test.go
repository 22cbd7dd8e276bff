package cmd

import (
	"testing"
	"time"
)

func TestParseFlags(t *testing.T) {
	cfg, act, err := parse([]string{
		"-t", "-s", "10.20.30.4", "-p", "2323", "-l", "4000",
		"-w", "5", "-vv", "CORE_RTR01",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if act != actionRun {
		t.Fatalf("action = %v, want run", act)
	}
	if cfg.Target != "CORE_RTR01" {
		t.Errorf("Target = %q", cfg.Target)
	}
	if !cfg.Telnet || cfg.SpectroHost != "10.20.30.4" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DevicePort != 2323 || cfg.LocalPort != 4000 {
		t.Errorf("ports = %d/%d", cfg.DevicePort, cfg.LocalPort)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d", cfg.Verbose)
	}
}

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("SPECTROSERVER_HOST", "10.9.9.9")

	cfg, _, err := parse([]string{"172.31.100.20"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.SpectroHost != "10.9.9.9" {
		t.Errorf("SpectroHost = %q, want env default", cfg.SpectroHost)
	}

	// Flag overrides environment.
	cfg, _, err = parse([]string{"-s", "10.8.8.8", "172.31.100.20"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.SpectroHost != "10.8.8.8" {
		t.Errorf("SpectroHost = %q, want flag override", cfg.SpectroHost)
	}
}

func TestParseNoArgsShowsHelp(t *testing.T) {
	_, act, err := parse(nil)
	if err != nil || act != actionHelp {
		t.Fatalf("parse(nil) = action %v, err %v", act, err)
	}
}

func TestParseVersion(t *testing.T) {
	_, act, err := parse([]string{"--version"})
	if err != nil || act != actionVersion {
		t.Fatalf("parse(--version) = action %v, err %v", act, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing target", []string{"-t"}},
		{"too many targets", []string{"RTR01", "RTR02"}},
		{"bad device port", []string{"-p", "99999", "RTR01"}},
		{"bad local port", []string{"-l", "zero", "RTR01"}},
		{"unknown flag", []string{"--frobnicate", "RTR01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parse(tt.args); err == nil {
				t.Errorf("parse(%v) succeeded, want error", tt.args)
			}
		})
	}
}
