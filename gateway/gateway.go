// Package gateway reads and writes objects through the S3-compatible
// gateway a lakeFS server exposes. The gateway addresses a repository
// as a bucket and "ref/path" as the object key, which lets the data
// path bypass the REST API's body proxying.
package gateway

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/additiveai/lakeFS/api"
)

type Config struct {
	// Endpoint is the gateway host, e.g. "s3.lakefs.example.com:443".
	Endpoint string

	AccessKeyID     string
	SecretAccessKey string

	// Secure selects TLS for gateway connections.
	Secure bool
}

// Gateway is an S3-protocol data plane for a lakeFS server.
type Gateway struct {
	client *minio.Client
}

func New(cfg Config) (*Gateway, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}

	return &Gateway{client: client}, nil
}

// ObjectKey maps a version reference and path to the gateway object key.
func ObjectKey(ref, path string) string {
	return ref + "/" + path
}

// GetObject reads length bytes starting at offset. length < 0 reads to
// the end of the object.
func (g *Gateway) GetObject(ctx context.Context, repository, ref, path string, offset, length int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if offset > 0 || length > 0 {
		var err error
		if length < 0 {
			err = opts.SetRange(offset, 0)
		} else {
			err = opts.SetRange(offset, offset+length-1)
		}
		if err != nil {
			return nil, err
		}
	}

	obj, err := g.client.GetObject(ctx, repository, ObjectKey(ref, path), opts)
	if err != nil {
		return nil, toAPIError(err)
	}
	defer obj.Close()

	contents, err := io.ReadAll(obj)
	if err != nil {
		return nil, toAPIError(err)
	}

	return contents, nil
}

// StatObject returns object metadata as reported by the gateway. The
// physical address is not part of the S3 surface and is left empty.
func (g *Gateway) StatObject(ctx context.Context, repository, ref, path string) (*api.ObjectStats, error) {
	info, err := g.client.StatObject(ctx, repository, ObjectKey(ref, path), minio.StatObjectOptions{})
	if err != nil {
		return nil, toAPIError(err)
	}

	stats := &api.ObjectStats{
		Path:      path,
		PathType:  "object",
		Checksum:  strings.Trim(info.ETag, `"`),
		Mtime:     info.LastModified.Unix(),
		SizeBytes: swag.Int64(info.Size),
	}
	if info.ContentType != "" {
		stats.ContentType = swag.String(info.ContentType)
	}
	if len(info.UserMetadata) > 0 {
		stats.Metadata = info.UserMetadata
	}

	return stats, nil
}

// PutObject uploads data through the gateway and returns the resulting
// ETag.
func (g *Gateway) PutObject(ctx context.Context, repository, branch, path string, data []byte, contentType string, metadata map[string]string) (string, error) {
	info, err := g.client.PutObject(ctx, repository, ObjectKey(branch, path),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: metadata,
		})
	if err != nil {
		return "", toAPIError(err)
	}

	return strings.Trim(info.ETag, `"`), nil
}

// RemoveObject deletes the object through the gateway.
func (g *Gateway) RemoveObject(ctx context.Context, repository, branch, path string) error {
	err := g.client.RemoveObject(ctx, repository, ObjectKey(branch, path), minio.RemoveObjectOptions{})
	return toAPIError(err)
}

// toAPIError converts a minio error into a categorized *api.Error so
// gateway failures normalize the same way REST failures do.
func toAPIError(err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	if resp.Code == "" {
		return err
	}

	category := api.CategoryOther
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		category = api.CategoryNotFound
	case "AccessDenied":
		category = api.CategoryForbidden
	case "InvalidAccessKeyId", "SignatureDoesNotMatch":
		category = api.CategoryUnauthorized
	}

	return &api.Error{
		StatusCode: resp.StatusCode,
		Category:   category,
		Reason:     resp.Message,
	}
}
