package images

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrentUploads bounds Publish's parallelism.
const MaxConcurrentUploads = 4

// Publish uploads every inline image in refs (keyed by caller-chosen id) and
// returns the replacement references. Refs that are not data URIs are skipped.
// The first failure cancels the remaining uploads.
func Publish(ctx context.Context, up Uploader, refs map[string]string) (map[string]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentUploads)

	var mu sync.Mutex
	out := make(map[string]string, len(refs))
	for id, ref := range refs {
		if !IsDataURI(ref) {
			continue
		}
		id, ref := id, ref
		g.Go(func() error {
			img, err := ParseDataURI(ref)
			if err != nil {
				return fmt.Errorf("image %s: %w", id, err)
			}
			remote, err := up.Upload(ctx, img)
			if err != nil {
				return fmt.Errorf("upload image %s: %w", id, err)
			}
			mu.Lock()
			out[id] = remote
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
