package api

import (
	"time"

	"github.com/jdoyle/galleria/gallery/domain"
)

// Image is the transport shape of an image record. OriginalName carries
// the generated stored filename, matching what the gallery client
// expects.
type Image struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	OriginalName string    `json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ack acknowledges a mutation that returns no record.
type Ack struct {
	Msg string `json:"msg"`
}

// Error is the failure payload. Err carries the underlying message for
// diagnostics when one is available.
type Error struct {
	Msg string `json:"msg"`
	Err string `json:"error,omitempty"`
}

// FromDomain converts a domain image into its transport shape.
func FromDomain(img *domain.Image) Image {
	return Image{
		ID:           img.ID,
		Title:        img.Title,
		Description:  img.Description,
		ImageURL:     img.ImageURL,
		OriginalName: img.StoredName,
		CreatedAt:    img.CreatedAt,
	}
}

// FromDomainList converts a slice of domain images, preserving order.
func FromDomainList(images []*domain.Image) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		out = append(out, FromDomain(img))
	}
	return out
}
