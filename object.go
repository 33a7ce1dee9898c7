package lakefs

import (
	"context"

	"github.com/additiveai/lakeFS/api"
)

// StoredObject is an immutable reference to an object in a lakeFS
// repository, identified by repository, version reference and path.
// Metadata is fetched on demand and cached until the object is mutated.
//
// A StoredObject is not safe for concurrent use: the stats cache is
// unguarded by design, matching the single-owner handle model.
type StoredObject struct {
	client     *Client
	repository string
	ref        string
	path       string

	stats *api.ObjectStats
}

// Repository returns the object's repository id.
func (o *StoredObject) Repository() string {
	return o.repository
}

// Ref returns the object's version reference.
func (o *StoredObject) Ref() string {
	return o.ref
}

// Path returns the object's path relative to repository and reference.
func (o *StoredObject) Path() string {
	return o.path
}

// Stat returns the object's metadata, fetching it on the first call and
// returning the cached snapshot afterwards.
// Returns ErrObjectNotFound if the repository, reference or path does
// not exist and ErrPermissionDenied if access is denied.
func (o *StoredObject) Stat(ctx context.Context) (*api.ObjectStats, error) {
	if o.stats != nil {
		return o.stats, nil
	}

	o.client.log.Debug("stat object %s/%s/%s", o.repository, o.ref, o.path)

	stats, err := o.client.transport.StatObject(ctx, o.repository, o.ref, o.path)
	if err != nil {
		return nil, normalizeError(err)
	}

	o.stats = stats
	return stats, nil
}

// Exists reports whether the object exists. Absence is a false result,
// not an error; permission and server failures are still returned so
// they are never mistaken for a missing object.
func (o *StoredObject) Exists(ctx context.Context) (bool, error) {
	o.client.log.Debug("head object %s/%s/%s", o.repository, o.ref, o.path)

	err := o.client.transport.HeadObject(ctx, o.repository, o.ref, o.path)
	return normalizeExistsError(err)
}

// Copy requests a server-side copy of this object to destPath on the
// destination branch and returns a writeable reference to the copy.
// No object bytes pass through the client.
func (o *StoredObject) Copy(ctx context.Context, destinationBranch, destinationPath string) (*WriteableObject, error) {
	o.client.log.Debug("copy object %s/%s/%s to %s/%s",
		o.repository, o.ref, o.path, destinationBranch, destinationPath)

	_, err := o.client.transport.CopyObject(ctx, o.repository, destinationBranch, destinationPath, o.ref, o.path)
	if err != nil {
		return nil, normalizeError(err)
	}

	return o.client.WriteableObject(o.repository, destinationBranch, destinationPath), nil
}

// Open returns a read handle over the object. The handle captures ctx
// for the remote calls its reads issue. If no presign preference is
// forced, the storage backend's advertised default is used.
func (o *StoredObject) Open(ctx context.Context, opts ...OpenOption) (*ObjectReader, error) {
	options := newDefaultOpenOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if !options.Mode.valid() {
		return nil, errInvalidOpenMode(options.Mode)
	}

	presign, err := o.client.presignMode(ctx, options.PreSign)
	if err != nil {
		return nil, err
	}

	return &ObjectReader{
		obj:     o,
		mode:    options.Mode,
		presign: presign,
		ctx:     ctx,
	}, nil
}
