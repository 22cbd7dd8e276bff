package spectrum

import (
	"context"
	"fmt"
	"sort"

	cerr "github.com/johnrdowson/spectro-connect/internal/errors"
	"github.com/johnrdowson/spectro-connect/internal/target"
)

// Resolve reduces a name search to exactly one device or fails.
//
// Zero matches is NotFound, more than one is Ambiguous. The resolver
// never picks among candidates: this tool opens privileged sessions,
// and a silent first-match could land the operator on the wrong box.
func Resolve(ctx context.Context, name string, c Client) (target.Resolution, error) {
	if c == nil {
		return target.Resolution{}, fmt.Errorf(
			"%w: cannot look up %q", cerr.ErrAPIClientUnavailable, name)
	}

	devices, err := c.FindDevicesByName(ctx, name)
	if err != nil {
		return target.Resolution{}, err
	}

	switch len(devices) {
	case 0:
		return target.Resolution{}, &cerr.LookupError{Name: name, Kind: cerr.ErrNotFound}
	case 1:
		// fall through
	default:
		return target.Resolution{}, &cerr.LookupError{
			Name:    name,
			Matches: describe(devices),
			Kind:    cerr.ErrAmbiguous,
		}
	}

	d := devices[0]
	if d.IPAddress == "" {
		return target.Resolution{}, fmt.Errorf(
			"%w: device %q has no management IP", cerr.ErrUpstreamUnavailable, d.Name)
	}
	return target.Resolution{IP: d.IPAddress, DeviceFamily: d.DeviceFamily}, nil
}

// describe renders candidates as "name (ip)" lines, sorted by name.
func describe(devices []Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, fmt.Sprintf("%s (%s)", d.Name, d.IPAddress))
	}
	sort.Strings(out)
	return out
}
