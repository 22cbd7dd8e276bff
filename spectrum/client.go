// Package spectrum queries the CA Spectrum OneClick REST API for device
// inventory and resolves device names to management addresses.
package spectrum

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cerr "github.com/johnrdowson/spectro-connect/internal/errors"
)

// Spectrum model attribute IDs requested from the models endpoint.
const (
	attrModelName    = "0x1006e"
	attrIPAddress    = "0x12d7f"
	attrDeviceFamily = "0x12bef" // NCM Device Family
)

// Device is one inventory entry matched by a name search.
type Device struct {
	Name         string
	IPAddress    string
	DeviceFamily string
}

// Client is the device-lookup capability the resolver consumes.
// Implementations return every record the manager matched; reducing the
// set to one device is the resolver's job, not the client's.
type Client interface {
	FindDevicesByName(ctx context.Context, name string) ([]Device, error)
}

// RestClient talks to a OneClick server over its RESTful models API
// with basic auth.
type RestClient struct {
	BaseURL  string
	Username string
	Password string

	// HTTPClient defaults to a client with Timeout. Override in tests.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewRestClient validates the manager configuration and returns a
// ready-to-use client. Any missing value means name lookups cannot be
// performed at all, which is a precondition failure, not a transport
// one.
func NewRestClient(baseURL, username, password string, timeout time.Duration) (*RestClient, error) {
	if baseURL == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: SPECTRUM_URL, SPECTRUM_USERNAME and SPECTRUM_PASSWORD are required",
			cerr.ErrAPIClientUnavailable)
	}
	return &RestClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		Password: password,
		Timeout:  timeout,
	}, nil
}

func (c *RestClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

// FindDevicesByName POSTs a models-search request filtered on model
// name. Matching semantics (substring, case-insensitive) are the
// manager's own; the name is passed through unmodified.
func (c *RestClient) FindDevicesByName(ctx context.Context, name string) ([]Device, error) {
	payload := buildModelRequest(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/spectrum/restful/models", strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerr.ErrUpstreamUnavailable, err)
	}
	req.SetBasicAuth(c.Username, c.Password)
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s",
			cerr.ErrUpstreamUnavailable, c.BaseURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", cerr.ErrUpstreamUnavailable, err)
	}

	devices, err := parseModelResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerr.ErrUpstreamUnavailable, err)
	}
	return devices, nil
}

// ── Request encoding ─────────────────────────────────────────────────

// modelRequestTemplate is the OneClick models-search document: devices
// only, filtered on model name by has-substring-ignore-case, returning
// model name, IP address, and NCM device family.
const modelRequestTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rs:model-request
xmlns:rs="http://www.ca.com/spectrum/restful/schema/request"
xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
throttlesize="60000"
xsi:schemaLocation="http://www.ca.com/spectrum/restful/schema/request ../../../xsd/Request.xsd">
    <rs:target-models>
        <rs:models-search>
            <rs:search-criteria
            xmlns="http://www.ca.com/spectrum/restful/schema/filter">
                <devices-only-search>
                </devices-only-search>
                <filtered-models>
                    <has-substring-ignore-case>
                        <model-name>%s</model-name>
                    </has-substring-ignore-case>
                </filtered-models>
            </rs:search-criteria>
        </rs:models-search>
    </rs:target-models>
    <rs:requested-attribute id="%s" />
    <rs:requested-attribute id="%s" />
    <rs:requested-attribute id="%s" />
</rs:model-request>
`

func buildModelRequest(name string) string {
	return fmt.Sprintf(modelRequestTemplate,
		escapeXML(name), attrModelName, attrIPAddress, attrDeviceFamily)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	xml.EscapeText(&buf, []byte(s)) //nolint:errcheck
	return buf.String()
}

// ── Response decoding ────────────────────────────────────────────────
//
// The response is namespace-qualified; unqualified field tags match on
// local name, so no namespace stripping is needed.

type modelResponseList struct {
	Models []modelElement `xml:"model-responses>model"`
}

type modelElement struct {
	Handle     string             `xml:"mh,attr"`
	Error      string             `xml:"error,attr"`
	Attributes []attributeElement `xml:"attribute"`
}

type attributeElement struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

func (m modelElement) attribute(id string) string {
	for _, a := range m.Attributes {
		if a.ID == id {
			return a.Value
		}
	}
	return ""
}

func parseModelResponse(body []byte) ([]Device, error) {
	var list modelResponseList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("malformed model response: %v", err)
	}

	var devices []Device
	for _, m := range list.Models {
		if m.Error != "" && m.Error != "EndOfResults" && m.Error != "NoError" {
			continue
		}
		devices = append(devices, Device{
			Name:         m.attribute(attrModelName),
			IPAddress:    m.attribute(attrIPAddress),
			DeviceFamily: m.attribute(attrDeviceFamily),
		})
	}
	return devices, nil
}
