package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matthurstrsa-droid/fastelavn/pkg/config"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
)

const (
	defaultBaseURL              = "https://nominatim.openstreetmap.org"
	requestBodyReadLimit  int64 = 1024
)

var errUserAgentRequired = errors.New("geocode user agent is required")

// Client wraps a Nominatim-style forward geocoder. It is only consulted
// at row-creation time for bakeries that are not yet on the sheet.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	countryCode string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured geocoder base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the geocoder client from configuration.
func NewClient(cfg config.GeocodeConfig, opts ...Option) (*Client, error) {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		return nil, errUserAgentRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     defaultBaseURL,
		userAgent:   userAgent,
		countryCode: strings.TrimSpace(cfg.CountryCode),
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Location is a resolved coordinate pair.
type Location struct {
	Lat float64
	Lon float64
}

// Lookup resolves an address to coordinates. A lookup that returns no
// results is a CodeGeocode error so callers can reject the submission
// instead of writing a row with null coordinates.
func (c *Client) Lookup(ctx context.Context, address string) (Location, error) {
	if c == nil {
		return Location{}, pkgerrors.New(pkgerrors.CodeDependency, "geocode client not configured")
	}
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return Location{}, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	query := url.Values{}
	query.Set("q", trimmed)
	query.Set("format", "json")
	query.Set("limit", "1")
	if c.countryCode != "" {
		query.Set("countrycodes", c.countryCode)
	}

	endpoint := fmt.Sprintf("%s/search?%s", strings.TrimRight(c.baseURL, "/"), query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Location{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Location{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return Location{}, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var apiResp []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return Location{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	if len(apiResp) == 0 {
		return Location{}, pkgerrors.New(pkgerrors.CodeGeocode, "no results for address").WithDetails(map[string]string{"address": trimmed})
	}

	lat, err := strconv.ParseFloat(apiResp[0].Lat, 64)
	if err != nil {
		return Location{}, pkgerrors.Wrap(pkgerrors.CodeGeocode, err, "parse latitude")
	}
	lon, err := strconv.ParseFloat(apiResp[0].Lon, 64)
	if err != nil {
		return Location{}, pkgerrors.Wrap(pkgerrors.CodeGeocode, err, "parse longitude")
	}

	return Location{Lat: lat, Lon: lon}, nil
}
