// Package brreg talks to the Brønnøysund Register Centre's Enhetsregisteret
// REST API to look up Norwegian organizations by name or org number.
package brreg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Unit is a registered organization as returned by Enhetsregisteret, reduced
// to the fields the invoicing flow needs.
type Unit struct {
	OrgNumber  string `json:"orgNumber"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// Registry is the outbound port for organization lookups. The concrete
// implementation uses the public REST API; tests can inject a fake.
type Registry interface {
	// Search returns up to limit units whose name matches the query.
	Search(ctx context.Context, name string, limit int) ([]Unit, error)
	// GetByOrgNumber returns the unit with the given nine-digit org number,
	// or nil when the register has no such unit.
	GetByOrgNumber(ctx context.Context, orgNumber string) (*Unit, error)
}

var _ Registry = (*Client)(nil)

// Client implements Registry against the Enhetsregisteret REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds the client. baseURL is the API root, typically
// https://data.brreg.no/enhetsregisteret/api.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// enhet mirrors the register's own JSON shape.
type enhet struct {
	Organisasjonsnummer string `json:"organisasjonsnummer"`
	Navn                string `json:"navn"`
	Forretningsadresse  struct {
		Adresse    []string `json:"adresse"`
		Postnummer string   `json:"postnummer"`
		Poststed   string   `json:"poststed"`
		Landkode   string   `json:"landkode"`
	} `json:"forretningsadresse"`
}

func (e *enhet) unit() Unit {
	u := Unit{
		OrgNumber:  e.Organisasjonsnummer,
		Name:       e.Navn,
		PostalCode: e.Forretningsadresse.Postnummer,
		City:       e.Forretningsadresse.Poststed,
		Country:    e.Forretningsadresse.Landkode,
	}
	if len(e.Forretningsadresse.Adresse) > 0 {
		u.Street = e.Forretningsadresse.Adresse[0]
	}
	return u
}

// Search queries units by name.
func (c *Client) Search(ctx context.Context, name string, limit int) ([]Unit, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("navn", name)
	q.Set("size", strconv.Itoa(limit))

	var payload struct {
		Embedded struct {
			Enheter []enhet `json:"enheter"`
		} `json:"_embedded"`
	}
	if err := c.get(ctx, c.baseURL+"/enheter?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	units := make([]Unit, 0, len(payload.Embedded.Enheter))
	for i := range payload.Embedded.Enheter {
		units = append(units, payload.Embedded.Enheter[i].unit())
	}
	return units, nil
}

// GetByOrgNumber fetches a single unit. A 404 from the register maps to
// (nil, nil).
func (c *Client) GetByOrgNumber(ctx context.Context, orgNumber string) (*Unit, error) {
	var e enhet
	err := c.get(ctx, c.baseURL+"/enheter/"+url.PathEscape(orgNumber), &e)
	if err != nil {
		if err == errNotFound {
			return nil, nil
		}
		return nil, err
	}
	u := e.unit()
	return &u, nil
}

var errNotFound = fmt.Errorf("brreg: not found")

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call enhetsregisteret: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("enhetsregisteret returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
