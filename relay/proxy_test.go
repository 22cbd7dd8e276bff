package relay

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/johnrdowson/spectro-connect/util"
)

// fakeSpectroServer accepts one connection, captures the relay command
// line, writes a banner, then drains until the peer closes.
func fakeSpectroServer(t *testing.T, banner string) (addr *net.TCPAddr, cmdCh chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	cmdCh = make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		br := bufio.NewReader(conn)
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}
		cmdCh <- line

		io.WriteString(conn, banner) //nolint:errcheck
		io.Copy(io.Discard, br)      //nolint:errcheck
	}()

	return ln.Addr().(*net.TCPAddr), cmdCh
}

func quietLogger() *util.Logger {
	l := util.NewLogger(0)
	l.SetOutput(io.Discard)
	return l
}

func TestProxyRelaysSession(t *testing.T) {
	relayAddr, cmdCh := fakeSpectroServer(t, "device-banner")

	spec := ConnectionSpec{
		Protocol:   ProtocolSSH,
		DeviceIP:   "10.0.0.5",
		DevicePort: 22,
		RelayHost:  "127.0.0.1",
		RelayPort:  relayAddr.Port,
	}
	proxy := &Proxy{Spec: spec, Logger: quietLogger()}
	if err := proxy.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer proxy.Close()

	serveErr := make(chan error, 1)
	go func() { serveErr <- proxy.Serve(context.Background()) }()

	client, err := net.Dial("tcp", proxy.Addr().String())
	if err != nil {
		t.Fatalf("dial proxy: %v", err)
	}

	got := make([]byte, len("device-banner"))
	if _, err := io.ReadFull(client, got); err != nil {
		t.Fatalf("reading banner through proxy: %v", err)
	}
	if string(got) != "device-banner" {
		t.Errorf("banner = %q", got)
	}
	client.Close()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after client close")
	}

	if cmd := <-cmdCh; cmd != spec.Command() {
		t.Errorf("relay command = %q, want %q", cmd, spec.Command())
	}
	if proxy.Stats().Received() != int64(len("device-banner")) {
		t.Errorf("received = %d bytes", proxy.Stats().Received())
	}
}

func TestProxyServeCancelled(t *testing.T) {
	spec := ConnectionSpec{
		Protocol: ProtocolSSH, DeviceIP: "10.0.0.5", DevicePort: 22,
		RelayHost: "127.0.0.1", RelayPort: 1, // never dialled
	}
	proxy := &Proxy{Spec: spec, Logger: quietLogger()}
	if err := proxy.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer proxy.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := proxy.Serve(ctx); err != context.Canceled {
		t.Fatalf("Serve = %v, want context.Canceled", err)
	}
}

func TestProxyDialFailure(t *testing.T) {
	// A relay endpoint that refuses connections surfaces as a dial
	// error after the client attaches.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	deadPort := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	spec := ConnectionSpec{
		Protocol: ProtocolSSH, DeviceIP: "10.0.0.5", DevicePort: 22,
		RelayHost: "127.0.0.1", RelayPort: deadPort,
	}
	proxy := &Proxy{Spec: spec, Logger: quietLogger(), DialTimeout: time.Second}
	if err := proxy.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer proxy.Close()

	serveErr := make(chan error, 1)
	go func() { serveErr <- proxy.Serve(context.Background()) }()

	client, err := net.Dial("tcp", proxy.Addr().String())
	if err != nil {
		t.Fatalf("dial proxy: %v", err)
	}
	defer client.Close()

	select {
	case err := <-serveErr:
		if err == nil {
			t.Fatal("Serve = nil, want dial error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not fail")
	}
}
