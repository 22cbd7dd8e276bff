package relay

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTelnetFamiliesDefaultOnly(t *testing.T) {
	families, err := LoadTelnetFamilies("")
	if err != nil {
		t.Fatalf("LoadTelnetFamilies: %v", err)
	}
	if _, ok := families["8519702"]; !ok {
		t.Error("built-in family 8519702 missing")
	}
}

func TestLoadTelnetFamiliesMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "families.yaml")
	data := "telnet_families:\n  - \"8519801\"\n  - \"8519900\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	families, err := LoadTelnetFamilies(path)
	if err != nil {
		t.Fatalf("LoadTelnetFamilies: %v", err)
	}
	for _, id := range []string{"8519702", "8519801", "8519900"} {
		if _, ok := families[id]; !ok {
			t.Errorf("family %s missing after merge", id)
		}
	}
}

func TestLoadTelnetFamiliesBadFile(t *testing.T) {
	if _, err := LoadTelnetFamilies(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("telnet_families: {not: [a, list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTelnetFamilies(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
