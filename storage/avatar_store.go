package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxAvatarBytes is the fixed ceiling for avatar payloads.
const MaxAvatarBytes = 512000

// Upload is a blob payload handed to a store together with its declared
// media type.
type Upload struct {
	Data        []byte
	ContentType string
}

// Size returns the payload length in bytes.
func (u *Upload) Size() int64 { return int64(len(u.Data)) }

// Subtype returns the media subtype of the payload, e.g. "png" for
// "image/png". Falls back to "bin" when the content type carries none.
func (u *Upload) Subtype() string {
	if i := strings.LastIndex(u.ContentType, "/"); i >= 0 && i < len(u.ContentType)-1 {
		return u.ContentType[i+1:]
	}
	return "bin"
}

// BlobStore writes a blob at a path, overwriting any previous blob there, and
// returns the public URL the blob is served from.
type BlobStore interface {
	Put(path string, data []byte) (string, error)
}

// DiskStore keeps blobs in a local directory served from a static base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore creates the backing directory if needed.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes the blob, replacing whatever lived at the path before.
func (s *DiskStore) Put(path string, data []byte) (string, error) {
	name := filepath.Base(path)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}
