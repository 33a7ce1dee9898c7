// Package api defines the transport capability consumed by the lakefs
// object layer: a small set of remote calls plus the wire types they
// exchange. Implementations live in subpackages (rest for the HTTP
// client, ephemeral for an in-memory transport).
package api

import (
	"context"
	"net/http"
)

// MetadataPrefix is prepended to every user metadata key when it is
// transmitted as a request header.
const MetadataPrefix = "x-lakefs-meta-"

// ObjectStats describes a single object at a point in time. Once
// obtained it is a snapshot; a remote mutation requires re-fetching.
type ObjectStats struct {
	Path            string `json:"path"`
	PathType        string `json:"path_type"`
	PhysicalAddress string `json:"physical_address"`
	Checksum        string `json:"checksum"`

	// Mtime is the last modification time in epoch seconds.
	Mtime int64 `json:"mtime"`

	PhysicalAddressExpiry *int64            `json:"physical_address_expiry,omitempty"`
	SizeBytes             *int64            `json:"size_bytes,omitempty"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	ContentType           *string           `json:"content_type,omitempty"`
}

// StagingLocation authorizes one direct write to an underlying physical
// address. It is consumed exactly once per successful staged upload.
type StagingLocation struct {
	PhysicalAddress    string  `json:"physical_address"`
	PresignedURL       *string `json:"presigned_url,omitempty"`
	PresignedURLExpiry *int64  `json:"presigned_url_expiry,omitempty"`
}

// StagingMetadata links a completed direct write back to its logical path.
type StagingMetadata struct {
	Staging      StagingLocation   `json:"staging"`
	Checksum     string            `json:"checksum"`
	SizeBytes    int64             `json:"size_bytes"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
	ContentType  *string           `json:"content_type,omitempty"`
}

// StorageConfig reports the storage backend details the server advertises.
type StorageConfig struct {
	BlockstoreType string `json:"blockstore_type"`
	PreSignSupport bool   `json:"pre_sign_support"`
}

// Transport is the narrow remote capability the object layer depends on.
// Every call is a single blocking round-trip; no implementation retries
// on its own.
type Transport interface {
	// StatObject returns metadata for the object at path.
	StatObject(ctx context.Context, repository, ref, path string) (*ObjectStats, error)

	// HeadObject probes for existence without transferring a body.
	HeadObject(ctx context.Context, repository, ref, path string) error

	// GetObject fetches object content. rangeHeader is an HTTP range
	// expression such as "bytes=5-14", or empty for the whole object.
	GetObject(ctx context.Context, repository, ref, path, rangeHeader string, presign bool) ([]byte, error)

	// DeleteObject removes the object at path on the given branch.
	DeleteObject(ctx context.Context, repository, branch, path string) error

	// CopyObject performs a server-side copy of (srcRef, srcPath) to
	// destPath on the destination branch.
	CopyObject(ctx context.Context, repository, branch, destPath, srcRef, srcPath string) (*ObjectStats, error)

	// UploadObject sends body directly to the object-creation endpoint.
	UploadObject(ctx context.Context, repository, branch, path string, body []byte, headers map[string]string) (*ObjectStats, error)

	// GetPhysicalAddress requests a staging location scoped to path.
	GetPhysicalAddress(ctx context.Context, repository, branch, path string, presign bool) (*StagingLocation, error)

	// LinkPhysicalAddress registers a staged write against its logical path.
	LinkPhysicalAddress(ctx context.Context, repository, branch, path string, metadata StagingMetadata) (*ObjectStats, error)

	// PutPresignedURL uploads body directly to a presigned URL and
	// returns the response headers.
	PutPresignedURL(ctx context.Context, url string, body []byte, headers map[string]string) (http.Header, error)

	// GetStorageConfig probes the server-reported storage configuration.
	GetStorageConfig(ctx context.Context) (*StorageConfig, error)
}
