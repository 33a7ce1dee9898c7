package lakefs

import (
	"net/http"

	"github.com/additiveai/lakeFS/api"
	"github.com/additiveai/lakeFS/gateway"
	"github.com/additiveai/lakeFS/log"
)

type ClientOptions struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	HTTPClient      *http.Client
	Transport       api.Transport
	Gateway         *gateway.Gateway
	Logger          *log.Logger
	LogLevel        log.LogLevel
}

type ClientOption func(*ClientOptions) error

func newDefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		LogLevel: log.Warn,
	}
}

// WithEndpoint sets the lakeFS server base URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(opts *ClientOptions) error {
		opts.Endpoint = endpoint
		return nil
	}
}

// WithCredentials sets the access key pair used for authentication.
func WithCredentials(accessKeyID, secretAccessKey string) ClientOption {
	return func(opts *ClientOptions) error {
		opts.AccessKeyID = accessKeyID
		opts.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithHTTPClient injects the HTTP client used by the REST transport.
// Timeouts and retry policy, if any, belong to this client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(opts *ClientOptions) error {
		opts.HTTPClient = httpClient
		return nil
	}
}

// WithTransport replaces the remote transport entirely. Endpoint and
// credential options are ignored when a transport is injected.
func WithTransport(transport api.Transport) ClientOption {
	return func(opts *ClientOptions) error {
		opts.Transport = transport
		return nil
	}
}

// WithS3Gateway attaches an S3-gateway data plane. When set, ranged
// object reads bypass the REST body-proxying path and go through the
// gateway instead.
func WithS3Gateway(gw *gateway.Gateway) ClientOption {
	return func(opts *ClientOptions) error {
		opts.Gateway = gw
		return nil
	}
}

func WithLogger(logger *log.Logger) ClientOption {
	return func(opts *ClientOptions) error {
		opts.Logger = logger
		return nil
	}
}

func WithLogLevel(level log.LogLevel) ClientOption {
	return func(opts *ClientOptions) error {
		opts.LogLevel = level
		return nil
	}
}

type OpenOptions struct {
	Mode    OpenMode
	PreSign *bool
}

type OpenOption func(*OpenOptions) error

func newDefaultOpenOptions() *OpenOptions {
	return &OpenOptions{
		Mode: OpenModeRead,
	}
}

// WithOpenMode sets the read mode (text or binary) for the handle.
func WithOpenMode(mode OpenMode) OpenOption {
	return func(opts *OpenOptions) error {
		opts.Mode = mode
		return nil
	}
}

// WithOpenPreSign forces presign mode for reads instead of the storage
// backend's advertised default.
func WithOpenPreSign(presign bool) OpenOption {
	return func(opts *OpenOptions) error {
		opts.PreSign = &presign
		return nil
	}
}

type CreateOptions struct {
	Mode        WriteMode
	PreSign     *bool
	ContentType string
	Metadata    map[string]string
}

type CreateOption func(*CreateOptions) error

func newDefaultCreateOptions() *CreateOptions {
	return &CreateOptions{
		Mode: WriteModeTruncateBinary,
	}
}

// WithWriteMode sets the write mode for Create. The default is "wb"
// (create or truncate, binary).
func WithWriteMode(mode WriteMode) CreateOption {
	return func(opts *CreateOptions) error {
		opts.Mode = mode
		return nil
	}
}

// WithCreatePreSign forces the upload strategy: true for a staged
// presigned upload, false for a direct body upload.
func WithCreatePreSign(presign bool) CreateOption {
	return func(opts *CreateOptions) error {
		opts.PreSign = &presign
		return nil
	}
}

// WithContentType sets the Content-Type of the created object.
func WithContentType(contentType string) CreateOption {
	return func(opts *CreateOptions) error {
		opts.ContentType = contentType
		return nil
	}
}

// WithMetadata attaches user metadata to the created object.
func WithMetadata(metadata map[string]string) CreateOption {
	return func(opts *CreateOptions) error {
		opts.Metadata = metadata
		return nil
	}
}
