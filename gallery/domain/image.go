package domain

import (
	"context"
	"io"
	"time"
)

// Image represents one uploaded image: its metadata record plus the
// reference to the blob backing it. ImageURL is the public path the
// client uses to fetch the blob; StoredName resolves the reference back
// to the physical file for cleanup.
type Image struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	StoredName  string
	CreatedAt   time.Time
}

// ImageUpdate carries a partial field set for an update. Nil fields are
// left untouched by the merge.
type ImageUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	StoredName  *string
}

// IsZero reports whether the update would change nothing.
func (u ImageUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil && u.ImageURL == nil && u.StoredName == nil
}

type ImageRepository interface {
	// Create inserts a new record and returns it with its assigned ID.
	Create(ctx context.Context, img *Image) (*Image, error)

	// Get retrieves a single record, or ErrNotFound.
	Get(ctx context.Context, id string) (*Image, error)

	// List returns all records, newest first. An empty collection yields
	// an empty slice, not an error.
	List(ctx context.Context) ([]*Image, error)

	// Update merges the supplied fields into an existing record and
	// returns the updated record, or ErrNotFound.
	Update(ctx context.Context, id string, fields ImageUpdate) (*Image, error)

	// Delete removes a record, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// FileUpload is an incoming binary payload with its declared metadata.
// Size must reflect the full payload length; the blob store validates it
// before writing anything.
type FileUpload struct {
	FieldName    string
	OriginalName string
	ContentType  string
	Size         int64
	Content      io.Reader
}

// StoredBlob is the stable result of persisting an upload: the generated
// unique name and the public reference derived from it.
type StoredBlob struct {
	Name string
	Ref  string
}

type BlobStore interface {
	// Store validates and durably writes an upload, returning its
	// generated name and public reference. Nothing is written when
	// validation fails.
	Store(upload FileUpload) (*StoredBlob, error)

	// Remove deletes a stored blob. A missing blob is not an error.
	Remove(storedName string) error

	// Exists reports whether a stored blob is present.
	Exists(storedName string) bool
}
