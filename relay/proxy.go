package relay

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/johnrdowson/spectro-connect/util"
)

// DefaultDialTimeout bounds the TCP dial to the SpectroServer.
const DefaultDialTimeout = 10 * time.Second

// Proxy is the local reverse-proxy socket a terminal client connects to
// in place of the device. On the first (and only) accepted connection
// it dials the SpectroServer, issues the relay command, and shuttles
// bytes until either side closes.
type Proxy struct {
	Spec        ConnectionSpec
	LocalPort   int // 0 = ephemeral
	DialTimeout time.Duration
	Logger      *util.Logger

	ln    net.Listener
	stats util.CopyStats
}

// Start binds the local listening socket. It must be called before
// Serve so that Addr is known when the terminal client is launched.
func (p *Proxy) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p.LocalPort))
	if err != nil {
		return fmt.Errorf("local proxy socket: %w", err)
	}
	p.ln = ln
	p.Logger.Debug("proxy: listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound local address. Only valid after Start.
func (p *Proxy) Addr() *net.TCPAddr {
	return p.ln.Addr().(*net.TCPAddr)
}

// Close tears down the listening socket, unblocking a pending Serve.
func (p *Proxy) Close() error {
	if p.ln == nil {
		return nil
	}
	return p.ln.Close()
}

// Stats returns the byte counters of the relayed session.
func (p *Proxy) Stats() *util.CopyStats { return &p.stats }

// Serve accepts one client connection, relays it through the
// SpectroServer, and returns when the session ends or ctx is cancelled.
func (p *Proxy) Serve(ctx context.Context) error {
	// Unblock Accept on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.ln.Close()
		case <-done:
		}
	}()

	p.Logger.Debug("proxy: waiting for client connection")
	client, err := p.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept: %w", err)
	}
	defer client.Close()
	p.Logger.Debug("proxy: client connected from %s", client.RemoteAddr())

	remote, err := p.dialRelay(ctx)
	if err != nil {
		return err
	}
	defer remote.Close()

	p.Logger.Info("connecting to [%s] through SpectroServer [%s]",
		util.Cyan(util.FormatAddr(p.Spec.DeviceIP, p.Spec.DevicePort)),
		util.Cyan(p.Spec.RelayAddr()))

	if _, err := remote.Write([]byte(p.Spec.Command())); err != nil {
		return fmt.Errorf("relay command: %w", err)
	}
	p.Logger.Debug("proxy: relay established, transferring data")

	if err := util.BidirectionalCopy(ctx, remote, client, client, &p.stats); err != nil {
		return fmt.Errorf("relay transfer: %w", err)
	}

	p.Logger.Verbose("session closed: %d bytes received, %d bytes sent",
		p.stats.Received(), p.stats.Sent())
	return nil
}

func (p *Proxy) dialRelay(ctx context.Context) (net.Conn, error) {
	timeout := p.DialTimeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}
	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", p.Spec.RelayAddr())
	if err != nil {
		return nil, fmt.Errorf("dial SpectroServer %s: %w", p.Spec.RelayAddr(), err)
	}
	return conn, nil
}
