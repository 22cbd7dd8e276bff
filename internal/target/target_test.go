package target

import (
	"testing"

	cerr "github.com/johnrdowson/spectro-connect/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Kind
	}{
		{"plain ip", "172.31.100.20", KindIP},
		{"low ip", "0.0.0.0", KindIP},
		{"high ip", "255.255.255.255", KindIP},
		{"device name", "CORE_RTR01", KindName},
		{"hostname-ish", "core-rtr01.example.com", KindName},
		{"octet too big", "256.1.1.1", KindName},
		{"three octets", "10.0.0", KindName},
		{"five octets", "10.0.0.1.2", KindName},
		{"leading zero octet", "01.2.3.4", KindName},
		{"trailing junk", "10.0.0.1 ", KindName},
		{"ipv6", "::1", KindName},
		{"ipv4 in ipv6", "::ffff:10.0.0.1", KindName},
		{"port suffix", "10.0.0.1:22", KindName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.token)
			if err != nil {
				t.Fatalf("Classify(%q) error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestClassifyEmpty(t *testing.T) {
	_, err := Classify("")
	if !cerr.Is(err, cerr.ErrInvalidInput) {
		t.Fatalf("Classify(\"\") error = %v, want ErrInvalidInput", err)
	}
}

func TestIsIPv4(t *testing.T) {
	if !IsIPv4("10.0.0.5") {
		t.Error("10.0.0.5 should be IPv4")
	}
	if IsIPv4("fe80::1") {
		t.Error("fe80::1 should not count as IPv4")
	}
	if IsIPv4("") {
		t.Error("empty string should not count as IPv4")
	}
}
