// Package rest implements the api.Transport capability over the lakeFS
// HTTP API. It performs no retries and sets no timeouts of its own;
// both belong to the injected HTTP client.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/additiveai/lakeFS/api"
)

const apiPrefix = "/api/v1"

type Config struct {
	// Endpoint is the server base URL, e.g. "http://localhost:8000".
	Endpoint string

	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient is used for every request. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client is the HTTP implementation of api.Transport.
type Client struct {
	base            *url.URL
	accessKeyID     string
	secretAccessKey string
	http            *http.Client
}

var _ api.Transport = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: parse endpoint: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("rest: invalid endpoint %q", cfg.Endpoint)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		base:            base,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
		http:            httpClient,
	}, nil
}

// endpointURL joins escaped path segments under the API prefix.
func (c *Client) endpointURL(segments []string, query url.Values) string {
	p := apiPrefix
	for _, segment := range segments {
		p += "/" + url.PathEscape(segment)
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + p
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, requestURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.accessKeyID != "" {
		req.SetBasicAuth(c.accessKeyID, c.secretAccessKey)
	}

	return req, nil
}

// do executes the request and returns the response payload and headers.
// Any status of 400 or above becomes a categorized *api.Error.
func (c *Client) do(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, nil, remoteError(resp.StatusCode, payload)
	}

	return payload, resp.Header, nil
}

// doJSON executes the request and decodes the JSON response into out.
func (c *Client) doJSON(req *http.Request, out any) error {
	payload, _, err := c.do(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

// remoteError builds a categorized error from a failure response,
// preferring the server's message field over the generic status text.
func remoteError(status int, payload []byte) *api.Error {
	reason := http.StatusText(status)

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		reason = body.Message
	}

	return &api.Error{
		StatusCode: status,
		Category:   api.CategoryForStatus(status),
		Reason:     reason,
	}
}

// PutPresignedURL uploads body to an externally issued presigned URL.
// The request is unauthenticated: the URL itself carries the grant, and
// it addresses the storage backend rather than the lakeFS server.
func (c *Client) PutPresignedURL(ctx context.Context, presignedURL string, body []byte, headers map[string]string) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.ContentLength = int64(len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, remoteError(resp.StatusCode, payload)
	}

	return resp.Header, nil
}

// GetStorageConfig probes the server's storage configuration.
func (c *Client) GetStorageConfig(ctx context.Context) (*api.StorageConfig, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpointURL([]string{"config", "storage"}, nil), nil)
	if err != nil {
		return nil, err
	}

	var cfg api.StorageConfig
	if err := c.doJSON(req, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
