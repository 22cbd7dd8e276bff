// Package cmd wires up the CLI flags and dispatches to the connect
// pipeline.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/johnrdowson/spectro-connect/config"
	"github.com/johnrdowson/spectro-connect/connect"
	"github.com/johnrdowson/spectro-connect/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X github.com/johnrdowson/spectro-connect/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs a single connection attempt.
func Execute(ctx context.Context, args []string) error {
	cfg, act, err := parse(args)
	if err != nil {
		return err
	}

	switch act {
	case actionHelp:
		return nil
	case actionVersion:
		fmt.Printf("spectro-connect %s\n", version)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := util.NewLogger(1 + cfg.Verbose)

	conn, err := connect.New(cfg, logger)
	if err != nil {
		return err
	}
	return conn.Run(ctx)
}

type action int

const (
	actionRun action = iota
	actionHelp
	actionVersion
)

// parse builds a Config from environment defaults overridden by flags.
func parse(args []string) (*config.Config, action, error) {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("spectro-connect", flag.ContinueOnError)

	// ── relay ────────────────────────────────────────────────────
	fs.StringVarP(&cfg.SpectroHost, "spectro-host", "s", cfg.SpectroHost,
		"IP address of the SpectroServer relay")
	var devicePort, localPort string
	fs.StringVarP(&devicePort, "port", "p", "", "Port to connect to on the remote device")
	fs.StringVarP(&localPort, "local-port", "l", "", "Local port for the proxy socket")

	// ── session ──────────────────────────────────────────────────
	fs.BoolVarP(&cfg.Telnet, "telnet", "t", false, "Connect using Telnet")
	fs.BoolVarP(&cfg.ProxyOnly, "proxy", "x", false, "Just provide a local proxy socket")
	fs.BoolVar(&cfg.Native, "native", false, "Run the SSH session in-process")
	fs.StringVar(&cfg.Username, "user", "", "SSH username (default: prompt)")
	fs.StringVar(&cfg.TelnetFamilyFile, "telnet-families", "",
		"YAML file with extra Telnet-only NCM device families")

	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Spectrum API timeout in seconds")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, actionRun, err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil, actionHelp, nil
	}
	if showVersion {
		return nil, actionVersion, nil
	}

	if devicePort != "" {
		port, err := config.ParsePort(devicePort)
		if err != nil {
			return nil, actionRun, fmt.Errorf("device port: %w", err)
		}
		cfg.DevicePort = port
	}
	if localPort != "" {
		port, err := config.ParsePort(localPort)
		if err != nil {
			return nil, actionRun, fmt.Errorf("local port: %w", err)
		}
		cfg.LocalPort = port
	}
	if timeoutSec > 0 {
		cfg.APITimeout = time.Duration(timeoutSec) * time.Second
	}

	// ── positional argument ──────────────────────────────────────
	switch remaining := fs.Args(); len(remaining) {
	case 0:
		return nil, actionRun, fmt.Errorf("device IP or name required (use --help for usage)")
	case 1:
		cfg.Target = remaining[0]
	default:
		return nil, actionRun, fmt.Errorf("too many arguments: %v", remaining[1:])
	}

	return cfg, actionRun, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `spectro-connect v%s

Open an SSH or Telnet session to a Spectrum-managed device through a
SpectroServer relay.

Usage:
  spectro-connect [options] <device-ip|device-name>

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Environment:
  SPECTRUM_URL, SPECTRUM_USERNAME, SPECTRUM_PASSWORD   OneClick API
  SPECTROSERVER_HOST, SPECTROSERVER_PORT               relay endpoint

Examples:
  spectro-connect 172.31.100.20              SSH to a known IP
  spectro-connect -t 172.31.100.20           Telnet instead
  spectro-connect CORE_RTR01                 Resolve by Spectrum name
  spectro-connect -x CORE_RTR01              Proxy socket only
`)
}
