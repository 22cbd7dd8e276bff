// Package relay encodes SpectroServer relay sessions and serves the
// local proxy socket a terminal client connects to.
package relay

import (
	"fmt"
	"net"
	"strconv"

	cerr "github.com/johnrdowson/spectro-connect/internal/errors"
	"github.com/johnrdowson/spectro-connect/internal/target"
)

// DefaultRelayPort is the SpectroServer listening port.
const DefaultRelayPort = 31415

// Protocol is the terminal protocol relayed to the device.
type Protocol string

const (
	ProtocolSSH    Protocol = "ssh"
	ProtocolTelnet Protocol = "telnet"
)

// DefaultPort returns the well-known device port for the protocol.
func (p Protocol) DefaultPort() int {
	if p == ProtocolTelnet {
		return 23
	}
	return 22
}

// SelectProtocol picks the terminal protocol. First match wins:
// an explicit operator override, then the Telnet-family table, then
// SSH.
func SelectProtocol(res target.Resolution, overrideTelnet bool, telnetFamilies map[string]struct{}) Protocol {
	if overrideTelnet {
		return ProtocolTelnet
	}
	if _, ok := telnetFamilies[res.DeviceFamily]; ok && res.DeviceFamily != "" {
		return ProtocolTelnet
	}
	return ProtocolSSH
}

// ConnectionSpec is a fully determined relay session: which protocol,
// which device, through which SpectroServer.
type ConnectionSpec struct {
	Protocol   Protocol
	DeviceIP   string
	DevicePort int
	RelayHost  string
	RelayPort  int
}

// NewConnectionSpec validates the inputs and fills protocol-derived
// defaults. A zero devicePort means the protocol's well-known port; a
// zero relayPort means DefaultRelayPort.
func NewConnectionSpec(proto Protocol, deviceIP string, devicePort int, relayHost string, relayPort int) (ConnectionSpec, error) {
	if relayHost == "" {
		return ConnectionSpec{}, fmt.Errorf(
			"%w: set SPECTROSERVER_HOST or pass -s", cerr.ErrMissingRelayHost)
	}
	if !target.IsIPv4(deviceIP) {
		return ConnectionSpec{}, fmt.Errorf("%w: %q", cerr.ErrInvalidAddress, deviceIP)
	}
	if devicePort == 0 {
		devicePort = proto.DefaultPort()
	}
	if relayPort == 0 {
		relayPort = DefaultRelayPort
	}
	return ConnectionSpec{
		Protocol:   proto,
		DeviceIP:   deviceIP,
		DevicePort: devicePort,
		RelayHost:  relayHost,
		RelayPort:  relayPort,
	}, nil
}

// Command returns the relay handshake line sent to the SpectroServer.
// This is a pinned wire contract: it must match byte-for-byte what the
// OneClick console sends, since the server parses both the same way.
func (s ConnectionSpec) Command() string {
	return fmt.Sprintf("relay %s %d\r\n", s.DeviceIP, s.DevicePort)
}

// RelayAddr returns the SpectroServer host:port to dial.
func (s ConnectionSpec) RelayAddr() string {
	return net.JoinHostPort(s.RelayHost, strconv.Itoa(s.RelayPort))
}
