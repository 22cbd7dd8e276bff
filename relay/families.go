package relay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The NCM device-family → protocol mapping is configuration, not
// business logic: it tracks the manager's device taxonomy, which
// changes independently of the selection algorithm.

// DefaultTelnetFamilies returns the built-in set of NCM device families
// that are managed over Telnet only.
func DefaultTelnetFamilies() map[string]struct{} {
	return map[string]struct{}{
		"8519702": {},
	}
}

type familyFile struct {
	TelnetFamilies []string `yaml:"telnet_families"`
}

// LoadTelnetFamilies reads a YAML file listing additional Telnet-only
// family identifiers and merges them with the built-in set:
//
//	telnet_families:
//	  - "8519702"
//	  - "8519801"
func LoadTelnetFamilies(path string) (map[string]struct{}, error) {
	families := DefaultTelnetFamilies()
	if path == "" {
		return families, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("telnet families: %w", err)
	}

	var f familyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("telnet families: parse %s: %w", path, err)
	}

	for _, id := range f.TelnetFamilies {
		if id != "" {
			families[id] = struct{}{}
		}
	}
	return families, nil
}
