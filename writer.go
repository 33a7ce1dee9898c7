package lakefs

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/additiveai/lakeFS/api"
)

// WriteMode selects create semantics: exclusive creation fails when the
// object already exists, truncate overwrites it. The binary variants
// skip UTF-8 validation of the content.
type WriteMode string

const (
	WriteModeExclusive       WriteMode = "x"
	WriteModeExclusiveBinary WriteMode = "xb"
	WriteModeTruncate        WriteMode = "w"
	WriteModeTruncateBinary  WriteMode = "wb"
)

func (m WriteMode) valid() bool {
	switch m {
	case WriteModeExclusive, WriteModeExclusiveBinary, WriteModeTruncate, WriteModeTruncateBinary:
		return true
	}
	return false
}

// IsBinary returns true when the mode writes raw bytes.
func (m WriteMode) IsBinary() bool {
	return strings.Contains(string(m), "b")
}

// IsExclusive returns true when the mode requires the object to not exist.
func (m WriteMode) IsExclusive() bool {
	return strings.Contains(string(m), "x")
}

// WriteableObject extends StoredObject with create and delete
// operations on a branch-scoped path.
type WriteableObject struct {
	StoredObject
}

// Create writes data as the object's new content and caches the
// resulting metadata snapshot.
//
// With an exclusive mode the object must not already exist; the check
// runs before any upload but is not atomic with it, so a concurrent
// writer can still slip in between check and upload.
//
// The upload strategy is chosen once per call: a forced preference via
// WithCreatePreSign, otherwise the storage backend's advertised
// default. Direct uploads send the body to the object-creation
// endpoint; presigned uploads stage the body at a physical address and
// then link that address to the logical path.
func (w *WriteableObject) Create(ctx context.Context, data []byte, opts ...CreateOption) (*WriteableObject, error) {
	options := newDefaultCreateOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if !options.Mode.valid() {
		return nil, fmt.Errorf("%w: invalid write mode %q", ErrInvalidArgument, options.Mode)
	}

	if options.Mode.IsExclusive() {
		exists, err := w.Exists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrObjectExists, w.path)
		}
	}

	if !options.Mode.IsBinary() && !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: data is not valid UTF-8 text", ErrInvalidArgument)
	}

	presign, err := w.client.presignMode(ctx, options.PreSign)
	if err != nil {
		return nil, err
	}

	var stats *api.ObjectStats
	if presign {
		stats, err = w.uploadPreSigned(ctx, data, options)
	} else {
		stats, err = w.uploadDirect(ctx, data, options)
	}
	if err != nil {
		return nil, normalizeError(err)
	}

	w.stats = stats
	return w, nil
}

// uploadDirect sends the body straight to the object-creation endpoint.
// The remote response carries the full object stats.
func (w *WriteableObject) uploadDirect(ctx context.Context, data []byte, options *CreateOptions) (*api.ObjectStats, error) {
	w.client.log.Debug("upload object %s/%s/%s (%d bytes, direct)",
		w.repository, w.ref, w.path, len(data))

	headers := map[string]string{
		"Content-Type": contentTypeOrDefault(options.ContentType),
	}
	for k, v := range options.Metadata {
		headers[api.MetadataPrefix+k] = v
	}

	return w.client.transport.UploadObject(ctx, w.repository, w.ref, w.path, data, headers)
}

// uploadPreSigned performs the staged upload: obtain a staging location,
// PUT the body to its presigned URL, then link the physical address back
// to the logical path with size, checksum and user metadata.
func (w *WriteableObject) uploadPreSigned(ctx context.Context, data []byte, options *CreateOptions) (*api.ObjectStats, error) {
	w.client.log.Debug("upload object %s/%s/%s (%d bytes, staged)",
		w.repository, w.ref, w.path, len(data))

	staging, err := w.client.transport.GetPhysicalAddress(ctx, w.repository, w.ref, w.path, true)
	if err != nil {
		return nil, err
	}
	if staging.PresignedURL == nil {
		return nil, &api.Error{
			StatusCode: 500,
			Category:   api.CategoryOther,
			Reason:     "staging location has no presigned URL",
		}
	}

	headers := map[string]string{
		"Content-Type": contentTypeOrDefault(options.ContentType),
	}

	cfg, err := w.client.StorageConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.BlockstoreType == "azure" {
		headers["x-ms-blob-type"] = "BlockBlob"
	}

	respHeaders, err := w.client.transport.PutPresignedURL(ctx, *staging.PresignedURL, data, headers)
	if err != nil {
		return nil, err
	}

	metadata := api.StagingMetadata{
		Staging:      *staging,
		Checksum:     checksumFromHeaders(respHeaders),
		SizeBytes:    int64(len(data)),
		UserMetadata: options.Metadata,
	}

	return w.client.transport.LinkPhysicalAddress(ctx, w.repository, w.ref, w.path, metadata)
}

// Delete removes the object and invalidates the cached stats snapshot,
// forcing the next Stat to re-fetch.
func (w *WriteableObject) Delete(ctx context.Context) error {
	w.client.log.Debug("delete object %s/%s/%s", w.repository, w.ref, w.path)

	if err := w.client.transport.DeleteObject(ctx, w.repository, w.ref, w.path); err != nil {
		return normalizeError(err)
	}

	w.stats = nil
	return nil
}

// checksumFromHeaders extracts the content checksum of a staged PUT.
// A Content-MD5 header is preferred, base64-decoded and hex-encoded;
// when absent or malformed, the trimmed ETag value is used instead.
func checksumFromHeaders(headers http.Header) string {
	if contentMD5 := headers.Get("Content-Md5"); contentMD5 != "" {
		if raw, err := base64.StdEncoding.DecodeString(contentMD5); err == nil {
			return hex.EncodeToString(raw)
		}
	}

	return strings.Trim(headers.Get("ETag"), ` "`)
}

func contentTypeOrDefault(contentType string) string {
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}
