package models

import (
	"time"
)

// TierList represents a published tier list
type TierList struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     []Container `json:"content"`
	CoverImage  string      `json:"cover_image,omitempty"`
	AuthorID    *string     `json:"author_id,omitempty"` // nil = guest
	AuthorName  string      `json:"author_name,omitempty"`
	ShareCode   string      `json:"share_code"`
	IsPublic    bool        `json:"is_public"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TierListCreate is the request body for creating a tier list
type TierListCreate struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     []Container `json:"content"`
	CoverImage  string      `json:"cover_image,omitempty"`
	AuthorID    *string     `json:"author_id,omitempty"`
	AuthorName  string      `json:"author_name,omitempty"`
	IsPublic    bool        `json:"is_public"`
}

// TierListUpdate is the request body for updating a tier list
type TierListUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Content     []Container `json:"content,omitempty"`
	IsPublic    *bool       `json:"is_public,omitempty"`
}

// TierListSummary is a lightweight version for listings
type TierListSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CoverImage string    `json:"cover_image,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	ShareCode  string    `json:"share_code"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Draft is an unpublished tier list kept in the local cache
type Draft struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     []Container `json:"content"`
	SavedAt     time.Time   `json:"saved_at"`
}

// RankedItemCount counts items outside the bench
func RankedItemCount(content []Container) int {
	n := 0
	for _, c := range content {
		if c.ID == BenchID {
			continue
		}
		n += len(c.Items)
	}
	return n
}
