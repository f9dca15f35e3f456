package models

import "encoding/json"

// BenchID is the reserved id of the unranked holding container
const BenchID = "bench"

// Container is a named, ordered bucket of items (a tier, or the bench)
type Container struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is a single rankable image
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageRef string `json:"imageRef"` // data URI while editing, remote URI once uploaded
}

// UnmarshalJSON accepts the legacy "src" key for the image reference.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		ImageRef string `json:"imageRef"`
		Src      string `json:"src"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.ID = raw.ID
	i.Title = raw.Title
	i.ImageRef = raw.ImageRef
	if i.ImageRef == "" {
		i.ImageRef = raw.Src
	}
	return nil
}

// IsBench reports whether the container is the holding pen
func (c Container) IsBench() bool {
	return c.ID == BenchID
}
