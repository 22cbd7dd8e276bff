// Package target classifies operator-supplied target tokens and carries
// the result of resolving one to a device.
package target

import (
	"fmt"
	"net/netip"

	cerr "github.com/johnrdowson/spectro-connect/internal/errors"
)

// Kind tags a token as a literal IPv4 address or a symbolic device name.
type Kind int

const (
	KindIP Kind = iota
	KindName
)

func (k Kind) String() string {
	if k == KindIP {
		return "ip"
	}
	return "name"
}

// Classify decides whether token is a literal IPv4 address or a device
// name. The check is purely syntactic: no DNS, no reachability. Empty
// tokens are rejected up front.
func Classify(token string) (Kind, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: empty target", cerr.ErrInvalidInput)
	}
	if IsIPv4(token) {
		return KindIP, nil
	}
	return KindName, nil
}

// IsIPv4 reports whether s is a well-formed dotted-quad IPv4 address.
// IPv6 literals and 4-in-6 forms do not count.
func IsIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// Resolution is the product of resolving a token: the device management
// IP plus, when a Spectrum lookup was performed, its NCM device family.
type Resolution struct {
	IP           string
	DeviceFamily string // empty when unknown (direct IP targets)
}
