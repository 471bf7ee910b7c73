package fsutil

import (
	"context"
	"fmt"
	"strings"
)

// ObjectGetter fetches a whole object from a bucket
type ObjectGetter interface {
	GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
}

// ObjectFileStore reads "s3://bucket/object" paths from an object store
type ObjectFileStore struct {
	getter ObjectGetter
}

// NewObjectFileStore creates a FileStore backed by an object store such as MinIO
func NewObjectFileStore(getter ObjectGetter) FileStore {
	return &ObjectFileStore{getter: getter}
}

func (fs *ObjectFileStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	bucket, object, err := ParseObjectURL(path)
	if err != nil {
		return nil, err
	}
	return fs.getter.GetObject(ctx, bucket, object)
}

// ParseObjectURL splits "s3://bucket/object/key" into bucket and object name.
func ParseObjectURL(path string) (string, string, error) {
	_, rest, found := strings.Cut(path, "://")
	if !found {
		rest = path
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid object URL format: %s", path)
	}
	return parts[0], parts[1], nil
}
