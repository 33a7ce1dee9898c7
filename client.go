// Package lakefs provides file-like read and write access to objects in
// a lakeFS repository. Objects are addressed by an immutable triple of
// repository, version reference and path; reading and writing happen
// through handles that translate positional I/O into remote calls.
package lakefs

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/additiveai/lakeFS/api"
	"github.com/additiveai/lakeFS/api/rest"
	"github.com/additiveai/lakeFS/gateway"
	"github.com/additiveai/lakeFS/log"
)

// Environment variables consulted when no explicit configuration is given.
const (
	EnvEndpoint        = "LAKEFS_ENDPOINT"
	EnvAccessKeyID     = "LAKEFS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "LAKEFS_SECRET_ACCESS_KEY"
)

// Client provides access to objects stored in a lakeFS server.
// It holds the remote transport, an optional S3-gateway data plane for
// reads, and a lazily probed storage configuration.
type Client struct {
	transport api.Transport
	gateway   *gateway.Gateway
	log       *log.Logger

	mu            sync.Mutex
	storageConfig *api.StorageConfig
}

// NewClient creates a client from the given options. When no transport
// is injected, an HTTP transport is built from the configured endpoint
// and credentials, falling back to the LAKEFS_* environment variables.
func NewClient(opts ...ClientOption) (*Client, error) {
	options := newDefaultClientOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("lakefs", options.LogLevel, "", false)
	}

	transport := options.Transport
	if transport == nil {
		endpoint := options.Endpoint
		if endpoint == "" {
			endpoint = os.Getenv(EnvEndpoint)
		}
		if endpoint == "" {
			return nil, fmt.Errorf("%w: no endpoint configured", ErrInvalidArgument)
		}

		accessKey := options.AccessKeyID
		secretKey := options.SecretAccessKey
		if accessKey == "" {
			accessKey = os.Getenv(EnvAccessKeyID)
			secretKey = os.Getenv(EnvSecretAccessKey)
		}

		t, err := rest.NewClient(rest.Config{
			Endpoint:        endpoint,
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
			HTTPClient:      options.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		transport = t
	}

	return &Client{
		transport: transport,
		gateway:   options.Gateway,
		log:       logger,
	}, nil
}

// StorageConfig returns the server-reported storage configuration.
// The probe happens once; the result is cached for the client lifetime.
func (c *Client) StorageConfig(ctx context.Context) (*api.StorageConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storageConfig != nil {
		return c.storageConfig, nil
	}

	c.log.Debug("probing storage configuration")
	cfg, err := c.transport.GetStorageConfig(ctx)
	if err != nil {
		return nil, normalizeError(err)
	}

	c.storageConfig = cfg
	return cfg, nil
}

// Object returns a read-capable reference to the object at path under
// the given version reference (branch, tag or commit id).
func (c *Client) Object(repository, ref, path string) *StoredObject {
	return &StoredObject{
		client:     c,
		repository: repository,
		ref:        ref,
		path:       path,
	}
}

// WriteableObject returns a mutable reference to the object at path on
// the given branch.
func (c *Client) WriteableObject(repository, branch, path string) *WriteableObject {
	return &WriteableObject{
		StoredObject: StoredObject{
			client:     c,
			repository: repository,
			ref:        branch,
			path:       path,
		},
	}
}

// presignMode resolves an explicit presign preference against the
// storage backend's advertised default.
func (c *Client) presignMode(ctx context.Context, explicit *bool) (bool, error) {
	if explicit != nil {
		return *explicit, nil
	}

	cfg, err := c.StorageConfig(ctx)
	if err != nil {
		return false, err
	}

	return cfg.PreSignSupport, nil
}
