package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/chartmuseum/storage"
)

// LocalClient implements ObjectStorage on a local directory.
type LocalClient struct {
	root    string
	backend *storage.LocalFilesystemBackend
}

var _ ObjectStorage = (*LocalClient)(nil)

func NewLocalClient(root string) (*LocalClient, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", root, err)
	}
	return &LocalClient{
		root:    root,
		backend: storage.NewLocalFilesystemBackend(root),
	}, nil
}

// ListObjects lists the objects directly under prefix; unlike S3 it does not
// descend into sub directories.
func (c *LocalClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if _, err := os.Stat(filepath.Join(c.root, prefix)); os.IsNotExist(err) {
		return []ObjectInfo{}, nil
	}

	objects, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("local list failed: %w", err)
	}

	results := make([]ObjectInfo, 0, len(objects))
	for _, object := range objects {
		key := path.Join(prefix, object.Path)
		info := ObjectInfo{Key: key, LastModified: object.LastModified}
		if st, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(key))); err == nil {
			info.Size = st.Size()
		}
		results = append(results, info)
	}
	return results, nil
}

// DownloadObject copies an object to the provided destination path.
func (c *LocalClient) DownloadObject(ctx context.Context, key, destPath string) error {
	object, err := c.backend.GetObject(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", destPath, err)
	}
	if err := os.WriteFile(destPath, object.Content, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", destPath, err)
	}
	return nil
}

func (c *LocalClient) UploadObject(ctx context.Context, key string, data []byte) error {
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("local upload of %s failed: %w", key, err)
	}
	return nil
}
