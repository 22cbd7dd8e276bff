package util

import (
	"net"
	"strconv"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	if got := FormatAddr("10.0.0.5", 22); got != "10.0.0.5:22" {
		t.Errorf("FormatAddr = %q", got)
	}
	// IPv6 hosts get bracketed by JoinHostPort.
	if got := FormatAddr("::1", 23); got != "[::1]:23" {
		t.Errorf("FormatAddr = %q", got)
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatalf("FindFreePort: %v", err)
	}
	if port < 1 || port > 65535 {
		t.Fatalf("port %d out of range", port)
	}

	// The port should be bindable right after.
	l, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("binding returned port: %v", err)
	}
	l.Close()
}
