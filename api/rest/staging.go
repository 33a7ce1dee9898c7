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

func (c *Client) GetPhysicalAddress(ctx context.Context, repository, branch, path string, presign bool) (*api.StagingLocation, error) {
	query := url.Values{
		"path":    {path},
		"presign": {strconv.FormatBool(presign)},
	}
	requestURL := c.endpointURL([]string{"repositories", repository, "branches", branch, "staging", "backing"}, query)

	req, err := c.newRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	var location api.StagingLocation
	if err := c.doJSON(req, &location); err != nil {
		return nil, err
	}

	return &location, nil
}

func (c *Client) LinkPhysicalAddress(ctx context.Context, repository, branch, path string, metadata api.StagingMetadata) (*api.ObjectStats, error) {
	query := url.Values{"path": {path}}
	requestURL := c.endpointURL([]string{"repositories", repository, "branches", branch, "staging", "backing"}, query)

	body, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPut, requestURL, bytes.NewReader(body))
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
