package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/meur/tierboard/internal/dnd"
	"github.com/meur/tierboard/internal/images"
	"github.com/meur/tierboard/internal/models"
)

// Publisher persists a finished tier list.
type Publisher interface {
	CreateTierList(tl *models.TierListCreate) (*models.TierList, error)
}

// PublishRequest carries what the author adds when publishing.
type PublishRequest struct {
	CoverImage string  `json:"cover_image,omitempty"`
	AuthorID   *string `json:"author_id,omitempty"`
	AuthorName string  `json:"author_name,omitempty"`
	IsPublic   bool    `json:"is_public"`
}

// the cover image travels with item images under a key no item can have
const coverKey = ""

// Publish uploads every inline image of the current board and the cover, stores
// the tier list and clears the draft. The editor lock is released during the
// uploads so drags keep working; uploaded references are applied afterwards to
// items whose image has not changed meanwhile. On failure nothing is modified.
func (e *Editor) Publish(ctx context.Context, up images.Uploader, store Publisher, req PublishRequest) (*models.TierList, error) {
	e.mu.Lock()
	if e.machine.State() != dnd.Idle {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	title := strings.TrimSpace(e.title)
	description := e.description
	snap := e.model.Board()
	e.mu.Unlock()

	if title == "" {
		return nil, ErrUntitled
	}

	refs := map[string]string{}
	for _, c := range snap.Containers() {
		for _, it := range c.Items {
			refs[it.ID] = it.ImageRef
		}
	}
	if req.CoverImage != "" {
		refs[coverKey] = req.CoverImage
	}

	uploaded, err := images.Publish(ctx, up, refs)
	if err != nil {
		e.logger.Error("publish upload failed", "err", err)
		return nil, fmt.Errorf("failed to upload images: %w", err)
	}

	published := snap
	cover := req.CoverImage
	for id, ref := range uploaded {
		if id == coverKey {
			cover = ref
			continue
		}
		published = published.SetImageRef(id, ref)
	}

	tl, err := store.CreateTierList(&models.TierListCreate{
		Title:       title,
		Description: description,
		Content:     published.Containers(),
		CoverImage:  cover,
		AuthorID:    req.AuthorID,
		AuthorName:  req.AuthorName,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		e.logger.Error("publish store failed", "err", err)
		return nil, fmt.Errorf("failed to save tier list: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for id, ref := range uploaded {
		if id == coverKey {
			continue
		}
		if it, ok := e.model.Board().Item(id); ok && it.ImageRef == refs[id] {
			e.model.SetImageRef(id, ref)
		}
	}
	if e.drafts != nil {
		if err := e.drafts.Delete(e.id); err != nil {
			e.logger.Warn("failed to clear draft", "err", err)
		}
	}
	e.dirty = false
	e.logger.Info("published", "tierlist", tl.ID, "share", tl.ShareCode, "uploads", len(uploaded), "items", published.ItemCount())
	return tl, nil
}
