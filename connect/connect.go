// Package connect orchestrates a single invocation: classify the
// target, resolve it through Spectrum when needed, pick the protocol,
// encode the relay session, and hand the proxy socket to a terminal
// client.
package connect

import (
	"context"
	"fmt"

	"github.com/johnrdowson/spectro-connect/config"
	"github.com/johnrdowson/spectro-connect/internal/console"
	"github.com/johnrdowson/spectro-connect/internal/target"
	"github.com/johnrdowson/spectro-connect/relay"
	"github.com/johnrdowson/spectro-connect/spectrum"
	"github.com/johnrdowson/spectro-connect/util"
)

// Connector wires the resolution pipeline to the relay proxy and the
// terminal launcher. Client and Launcher are injected so the pipeline
// is testable with stubs.
type Connector struct {
	Config         *config.Config
	Client         spectrum.Client // nil when Spectrum is not configured
	Launcher       console.Launcher
	TelnetFamilies map[string]struct{}
	Logger         *util.Logger
}

// New builds a Connector from validated configuration.
func New(cfg *config.Config, logger *util.Logger) (*Connector, error) {
	c := &Connector{Config: cfg, Logger: logger}

	if cfg.SpectrumConfigured() {
		client, err := spectrum.NewRestClient(
			cfg.SpectrumURL, cfg.SpectrumUsername, cfg.SpectrumPassword, cfg.APITimeout)
		if err != nil {
			return nil, err
		}
		c.Client = client
	}

	families, err := relay.LoadTelnetFamilies(cfg.TelnetFamilyFile)
	if err != nil {
		return nil, err
	}
	c.TelnetFamilies = families

	if cfg.Native {
		c.Launcher = &console.NativeLauncher{Logger: logger}
	} else {
		c.Launcher = &console.ClientLauncher{Logger: logger}
	}
	return c, nil
}

// Run resolves the target, starts the local proxy, and either prints
// the socket (-x) or launches the terminal client against it.
func (c *Connector) Run(ctx context.Context) error {
	spec, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	proxy := &relay.Proxy{
		Spec:      spec,
		LocalPort: c.Config.LocalPort,
		Logger:    c.Logger,
	}
	if err := proxy.Start(); err != nil {
		return err
	}
	defer proxy.Close()

	addr := proxy.Addr()
	c.Logger.Debug("created proxy socket on %s", addr)

	if c.Config.ProxyOnly {
		c.Logger.Info("proxy socket %s ready, awaiting connection", util.Cyan(addr.String()))
		return proxy.Serve(ctx)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- proxy.Serve(ctx) }()

	sess := console.Session{
		Protocol:  spec.Protocol,
		LocalHost: config.DefaultLocalAddress,
		LocalPort: addr.Port,
		DeviceIP:  spec.DeviceIP,
		Username:  c.Config.Username,
	}
	if err := c.Launcher.Launch(ctx, sess); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	return <-serveErr
}

// resolve turns the raw target token into a fully determined relay
// session. Pure decision logic plus at most one read-only manager
// query; nothing here needs rolling back on failure.
func (c *Connector) resolve(ctx context.Context) (relay.ConnectionSpec, error) {
	kind, err := target.Classify(c.Config.Target)
	if err != nil {
		return relay.ConnectionSpec{}, err
	}

	var res target.Resolution
	if kind == target.KindIP {
		res = target.Resolution{IP: c.Config.Target}
	} else {
		timeout := c.Config.APITimeout
		if timeout == 0 {
			timeout = config.DefaultAPITimeout
		}
		lookupCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		res, err = spectrum.Resolve(lookupCtx, c.Config.Target, c.Client)
		if err != nil {
			return relay.ConnectionSpec{}, err
		}
		c.Logger.Info("found device %s (%s)", util.Green(c.Config.Target), res.IP)
	}

	proto := relay.SelectProtocol(res, c.Config.Telnet, c.TelnetFamilies)
	c.Logger.Verbose("selected protocol %s (family %q)", proto, res.DeviceFamily)

	return relay.NewConnectionSpec(
		proto, res.IP, c.Config.DevicePort, c.Config.SpectroHost, c.Config.SpectroPort)
}
