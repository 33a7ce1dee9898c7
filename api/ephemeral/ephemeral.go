// Package ephemeral provides an in-memory api.Transport. It backs the
// object-layer tests and can serve as a lightweight stand-in for a
// lakeFS server in consumer tests: every capability is supported,
// including ranged reads, server-side copy and the two-phase staged
// upload. Remote calls are counted per capability so tests can assert
// which round-trips happened.
package ephemeral

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/swag"
	"github.com/tidwall/btree"

	"github.com/additiveai/lakeFS/api"
)

const presignedURLPrefix = "https://presigned.invalid/"

type object struct {
	data  []byte
	stats api.ObjectStats
}

// Transport is an in-memory implementation of api.Transport.
type Transport struct {
	mu      sync.Mutex
	objects *btree.Map[string, *object]
	staged  map[string][]byte
	calls   map[string]int
	seq     int

	// Config is the storage configuration reported to callers.
	Config api.StorageConfig
}

var _ api.Transport = (*Transport)(nil)

func New() *Transport {
	return &Transport{
		objects: btree.NewMap[string, *object](0),
		staged:  make(map[string][]byte),
		calls:   make(map[string]int),
		Config: api.StorageConfig{
			BlockstoreType: "mem",
			PreSignSupport: false,
		},
	}
}

func objectKey(repository, ref, path string) string {
	return repository + "/" + ref + "/" + path
}

func notFound(format string, args ...any) *api.Error {
	return &api.Error{
		StatusCode: 404,
		Category:   api.CategoryNotFound,
		Reason:     fmt.Sprintf(format, args...),
	}
}

// CallCount returns how many times the named capability was invoked:
// "stat", "head", "get", "delete", "copy", "upload", "staging_get",
// "staging_put", "staging_link", "config".
func (t *Transport) CallCount(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls[name]
}

// Keys returns every stored object key in lexicographic order.
func (t *Transport) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]string, 0, t.objects.Len())
	t.objects.Scan(func(key string, _ *object) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (t *Transport) StatObject(ctx context.Context, repository, ref, path string) (*api.ObjectStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["stat"]++

	obj, ok := t.objects.Get(objectKey(repository, ref, path))
	if !ok {
		return nil, notFound("object %q not found", path)
	}

	stats := obj.stats
	return &stats, nil
}

func (t *Transport) HeadObject(ctx context.Context, repository, ref, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["head"]++

	if _, ok := t.objects.Get(objectKey(repository, ref, path)); !ok {
		return notFound("object %q not found", path)
	}
	return nil
}

func (t *Transport) GetObject(ctx context.Context, repository, ref, path, rangeHeader string, presign bool) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["get"]++

	obj, ok := t.objects.Get(objectKey(repository, ref, path))
	if !ok {
		return nil, notFound("object %q not found", path)
	}

	start, end, err := parseRange(rangeHeader, int64(len(obj.data)))
	if err != nil {
		return nil, err
	}

	contents := make([]byte, end-start+1)
	copy(contents, obj.data[start:end+1])
	return contents, nil
}

func (t *Transport) DeleteObject(ctx context.Context, repository, branch, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["delete"]++

	if _, ok := t.objects.Delete(objectKey(repository, branch, path)); !ok {
		return notFound("object %q not found", path)
	}
	return nil
}

func (t *Transport) CopyObject(ctx context.Context, repository, branch, destPath, srcRef, srcPath string) (*api.ObjectStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["copy"]++

	src, ok := t.objects.Get(objectKey(repository, srcRef, srcPath))
	if !ok {
		return nil, notFound("object %q not found", srcPath)
	}

	stats := src.stats
	stats.Path = destPath
	stats.Mtime = time.Now().Unix()

	data := make([]byte, len(src.data))
	copy(data, src.data)
	t.objects.Set(objectKey(repository, branch, destPath), &object{data: data, stats: stats})

	result := stats
	return &result, nil
}

func (t *Transport) UploadObject(ctx context.Context, repository, branch, path string, body []byte, headers map[string]string) (*api.ObjectStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["upload"]++

	checksum := md5.Sum(body)

	stats := api.ObjectStats{
		Path:            path,
		PathType:        "object",
		PhysicalAddress: t.nextPhysicalAddress(repository),
		Checksum:        hex.EncodeToString(checksum[:]),
		Mtime:           time.Now().Unix(),
		SizeBytes:       swag.Int64(int64(len(body))),
	}

	if contentType, ok := headers["Content-Type"]; ok {
		stats.ContentType = swag.String(contentType)
	}
	for k, v := range headers {
		if strings.HasPrefix(strings.ToLower(k), api.MetadataPrefix) {
			if stats.Metadata == nil {
				stats.Metadata = make(map[string]string)
			}
			stats.Metadata[k[len(api.MetadataPrefix):]] = v
		}
	}

	data := make([]byte, len(body))
	copy(data, body)
	t.objects.Set(objectKey(repository, branch, path), &object{data: data, stats: stats})

	result := stats
	return &result, nil
}

func (t *Transport) GetPhysicalAddress(ctx context.Context, repository, branch, path string, presign bool) (*api.StagingLocation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["staging_get"]++

	address := t.nextPhysicalAddress(repository)
	location := &api.StagingLocation{PhysicalAddress: address}
	if presign {
		location.PresignedURL = swag.String(presignedURLPrefix + address)
	}
	return location, nil
}

func (t *Transport) PutPresignedURL(ctx context.Context, presignedURL string, body []byte, headers map[string]string) (http.Header, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["staging_put"]++

	address, ok := strings.CutPrefix(presignedURL, presignedURLPrefix)
	if !ok {
		return nil, &api.Error{
			StatusCode: 400,
			Category:   api.CategoryOther,
			Reason:     fmt.Sprintf("unrecognized presigned URL %q", presignedURL),
		}
	}

	data := make([]byte, len(body))
	copy(data, body)
	t.staged[address] = data

	checksum := md5.Sum(body)
	responseHeaders := http.Header{}
	responseHeaders.Set("Content-Md5", base64.StdEncoding.EncodeToString(checksum[:]))
	responseHeaders.Set("ETag", `"`+hex.EncodeToString(checksum[:])+`"`)
	return responseHeaders, nil
}

func (t *Transport) LinkPhysicalAddress(ctx context.Context, repository, branch, path string, metadata api.StagingMetadata) (*api.ObjectStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["staging_link"]++

	body, ok := t.staged[metadata.Staging.PhysicalAddress]
	if !ok {
		return nil, notFound("no staged upload at %q", metadata.Staging.PhysicalAddress)
	}
	// A staging location is consumed exactly once.
	delete(t.staged, metadata.Staging.PhysicalAddress)

	stats := api.ObjectStats{
		Path:            path,
		PathType:        "object",
		PhysicalAddress: metadata.Staging.PhysicalAddress,
		Checksum:        metadata.Checksum,
		Mtime:           time.Now().Unix(),
		SizeBytes:       swag.Int64(metadata.SizeBytes),
		Metadata:        metadata.UserMetadata,
		ContentType:     metadata.ContentType,
	}

	t.objects.Set(objectKey(repository, branch, path), &object{data: body, stats: stats})

	result := stats
	return &result, nil
}

func (t *Transport) GetStorageConfig(ctx context.Context) (*api.StorageConfig, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["config"]++

	cfg := t.Config
	return &cfg, nil
}

func (t *Transport) nextPhysicalAddress(repository string) string {
	t.seq++
	return fmt.Sprintf("mem://%s/%d", repository, t.seq)
}

// parseRange resolves an HTTP range expression against an object of the
// given size. An empty expression covers the whole object. A start past
// the end yields a 416 error, matching what a range-aware server does.
func parseRange(rangeHeader string, size int64) (start, end int64, err error) {
	if rangeHeader == "" {
		return 0, size - 1, nil
	}

	spec, ok := strings.CutPrefix(rangeHeader, "bytes=")
	if !ok {
		return 0, 0, &api.Error{
			StatusCode: 400,
			Category:   api.CategoryOther,
			Reason:     fmt.Sprintf("malformed range %q", rangeHeader),
		}
	}

	first, last, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, &api.Error{
			StatusCode: 400,
			Category:   api.CategoryOther,
			Reason:     fmt.Sprintf("malformed range %q", rangeHeader),
		}
	}

	start, err = strconv.ParseInt(first, 10, 64)
	if err != nil {
		return 0, 0, &api.Error{
			StatusCode: 400,
			Category:   api.CategoryOther,
			Reason:     fmt.Sprintf("malformed range start %q", first),
		}
	}

	if start >= size {
		return 0, 0, &api.Error{
			StatusCode: 416,
			Category:   api.CategoryOther,
			Reason:     fmt.Sprintf("range start %d past object size %d", start, size),
		}
	}

	end = size - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil {
			return 0, 0, &api.Error{
				StatusCode: 400,
				Category:   api.CategoryOther,
				Reason:     fmt.Sprintf("malformed range end %q", last),
			}
		}
		if end > size-1 {
			end = size - 1
		}
	}

	return start, end, nil
}
