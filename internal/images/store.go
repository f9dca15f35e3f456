package images

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by Get for an unknown key.
var ErrNotFound = errors.New("image not found")

// Uploader stores an image and returns the reference clients use to fetch it.
type Uploader interface {
	Upload(ctx context.Context, img DataURI) (string, error)
}

// Store is a content store for uploaded images on local disk.
type Store struct {
	d       *diskv.Diskv
	baseURL string
}

// NewStore opens an image store rooted at basePath. References returned by
// Upload are baseURL + "/" + key.
func NewStore(basePath, baseURL string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: blobKeyToPath,
			InverseTransform:  blobPathToKey,
			CacheSizeMax:      8 * 1024 * 1024,
		}),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload implements Uploader.
func (s *Store) Upload(ctx context.Context, img DataURI) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := uuid.New().String() + extensionFor(img.MediaType)
	if err := s.d.Write(key, img.Data); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// Get returns the stored bytes and media type for key.
func (s *Store) Get(key string) ([]byte, string, error) {
	if !validKey(key) || !s.d.Has(key) {
		return nil, "", ErrNotFound
	}
	data, err := s.d.Read(key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", key, err)
	}
	mt, ok := mediaTypes[path.Ext(key)]
	if !ok {
		mt = "application/octet-stream"
	}
	return data, mt, nil
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`) && !strings.Contains(key, "..")
}

// blobKeyToPath shards blobs two levels deep by key prefix.
func blobKeyToPath(key string) *diskv.PathKey {
	var dirs []string
	if len(key) >= 4 {
		dirs = []string{key[:2], key[2:4]}
	}
	return &diskv.PathKey{Path: dirs, FileName: key}
}

func blobPathToKey(pk *diskv.PathKey) string {
	return pk.FileName
}
