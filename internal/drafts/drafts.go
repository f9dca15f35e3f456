// Package drafts is the local cache of unpublished boards. A draft is written
// whenever an editor settles and is removed once the board is published.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/meur/tierboard/internal/models"
)

var (
	// ErrNotFound is returned by Load for an unknown draft.
	ErrNotFound = errors.New("draft not found")
	// ErrInvalidID is returned for ids that cannot name a file in the store.
	ErrInvalidID = errors.New("invalid draft id")
)

const ext = ".json"

// Store persists drafts as JSON files under a base directory.
type Store struct {
	d   *diskv.Diskv
	now func() time.Time
}

// New opens a draft store rooted at basePath.
func New(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		now: time.Now,
	}
}

// Save writes d, stamping SavedAt.
func (s *Store) Save(d *models.Draft) error {
	if !validID(d.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, d.ID)
	}
	d.SavedAt = s.now().UTC()
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.d.Write(d.ID, data); err != nil {
		return fmt.Errorf("failed to write draft %s: %w", d.ID, err)
	}
	return nil
}

// Load reads the draft with the given id.
func (s *Store) Load(id string) (*models.Draft, error) {
	if !validID(id) || !s.d.Has(id) {
		return nil, ErrNotFound
	}
	data, err := s.d.Read(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
	}
	var d models.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	d.ID = id
	return &d, nil
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (s *Store) Delete(id string) error {
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if !s.d.Has(id) {
		return nil
	}
	if err := s.d.Erase(id); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

// List returns every readable draft, most recently saved first.
func (s *Store) List(ctx context.Context) ([]*models.Draft, error) {
	var out []*models.Draft
	for key := range s.d.Keys(ctx.Done()) {
		d, err := s.Load(key)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// validID keeps ids inside the base directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

// keyToPath shards drafts by the first two characters of their id.
func keyToPath(key string) *diskv.PathKey {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return &diskv.PathKey{
		Path:     []string{shard},
		FileName: key + ext,
	}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.TrimSuffix(pk.FileName, ext)
}
