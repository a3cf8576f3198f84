package imagehost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matthurstrsa-droid/fastelavn/pkg/config"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.imgbb.com/1"
	requestBodyReadLimit  int64 = 1024
)

var errAPIKeyRequired = errors.New("image host api key is required")

// Client wraps an imgbb-style upload API: binary blob in, public URL out.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxBytes   int64
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

// WithBaseURL overrides the configured upload base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the image host client from configuration.
func NewClient(cfg config.ImageHostConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxBytes:   int64(maxMB) << 20,
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

// MaxBytes reports the configured upload size cap.
func (c *Client) MaxBytes() int64 {
	if c == nil {
		return 0
	}
	return c.maxBytes
}

// Upload pushes an image blob and returns its public URL.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "image host client not configured")
	}
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}
	if int64(len(data)) > c.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image payload too large")
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	endpoint := fmt.Sprintf("%s/upload", strings.TrimRight(c.baseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upload request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "upload request failed")
	}

	var apiResp struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upload response")
	}

	if strings.TrimSpace(apiResp.Data.URL) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "upload response missing url")
	}

	return apiResp.Data.URL, nil
}
