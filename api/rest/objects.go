package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/additiveai/lakeFS/api"
)

func (c *Client) StatObject(ctx context.Context, repository, ref, path string) (*api.ObjectStats, error) {
	query := url.Values{"path": {path}}
	requestURL := c.endpointURL([]string{"repositories", repository, "refs", ref, "objects", "stat"}, query)

	req, err := c.newRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	var stats api.ObjectStats
	if err := c.doJSON(req, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (c *Client) HeadObject(ctx context.Context, repository, ref, path string) error {
	query := url.Values{"path": {path}}
	requestURL := c.endpointURL([]string{"repositories", repository, "refs", ref, "objects"}, query)

	req, err := c.newRequest(ctx, http.MethodHead, requestURL, nil)
	if err != nil {
		return err
	}

	_, _, err = c.do(req)
	return err
}

func (c *Client) GetObject(ctx context.Context, repository, ref, path, rangeHeader string, presign bool) ([]byte, error) {
	query := url.Values{
		"path":    {path},
		"presign": {strconv.FormatBool(presign)},
	}
	requestURL := c.endpointURL([]string{"repositories", repository, "refs", ref, "objects"}, query)

	req, err := c.newRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	payload, _, err := c.do(req)
	return payload, err
}

func (c *Client) DeleteObject(ctx context.Context, repository, branch, path string) error {
	query := url.Values{"path": {path}}
	requestURL := c.endpointURL([]string{"repositories", repository, "branches", branch, "objects"}, query)

	req, err := c.newRequest(ctx, http.MethodDelete, requestURL, nil)
	if err != nil {
		return err
	}

	_, _, err = c.do(req)
	return err
}

func (c *Client) CopyObject(ctx context.Context, repository, branch, destPath, srcRef, srcPath string) (*api.ObjectStats, error) {
	query := url.Values{"dest_path": {destPath}}
	requestURL := c.endpointURL([]string{"repositories", repository, "branches", branch, "objects", "copy"}, query)

	body, err := json.Marshal(map[string]string{
		"src_path": srcPath,
		"src_ref":  srcRef,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var stats api.ObjectStats
	if err := c.doJSON(req, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (c *Client) UploadObject(ctx context.Context, repository, branch, path string, body []byte, headers map[string]string) (*api.ObjectStats, error) {
	query := url.Values{"path": {path}}
	requestURL := c.endpointURL([]string{"repositories", repository, "branches", branch, "objects"}, query)

	req, err := c.newRequest(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.ContentLength = int64(len(body))

	var stats api.ObjectStats
	if err := c.doJSON(req, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
