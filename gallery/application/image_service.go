package application

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jdoyle/galleria/gallery/domain"
)

// ImageService orchestrates the blob store and the record store so that
// a visible record always points at a live blob. There is no
// transaction spanning the two, so every mutation is a short sequence
// of side effects with explicit best-effort compensation when a later
// step fails.
type ImageService struct {
	repo  domain.ImageRepository
	blobs domain.BlobStore

	// Serializes mutations per record id so two updates, or an update
	// and a delete, on the same record never interleave their blob and
	// record writes.
	locks *keyedMutex
}

func NewImageService(repo domain.ImageRepository, blobs domain.BlobStore) *ImageService {
	return &ImageService{
		repo:  repo,
		blobs: blobs,
		locks: newKeyedMutex(),
	}
}

// CreateImage holds the caller-supplied fields for a create.
type CreateImage struct {
	Title       string
	Description string
	File        *domain.FileUpload
}

// UpdateImage holds the caller-supplied fields for an update. Nil
// fields are left unchanged; File replaces the stored blob when present.
type UpdateImage struct {
	Title       *string
	Description *string
	File        *domain.FileUpload
}

// Create stores the upload, then creates the record pointing at it. If
// the record insert fails the just-written blob is deleted so no orphan
// outlives the failed call; a secondary failure of that cleanup is
// logged and never masks the original error.
func (s *ImageService) Create(ctx context.Context, fields CreateImage) (*domain.Image, error) {
	if fields.File == nil {
		return nil, domain.NewValidationError("no file uploaded")
	}

	blob, err := s.blobs.Store(*fields.File)
	if err != nil {
		return nil, err
	}

	img, err := s.repo.Create(ctx, &domain.Image{
		Title:       fields.Title,
		Description: fields.Description,
		ImageURL:    blob.Ref,
		StoredName:  blob.Name,
	})
	if err != nil {
		if rmErr := s.blobs.Remove(blob.Name); rmErr != nil {
			log.Error().Err(rmErr).Str("storedName", blob.Name).Msg("Failed to clean up blob after record creation failure")
		}
		return nil, err
	}

	return img, nil
}

// Get retrieves a single record.
func (s *ImageService) Get(ctx context.Context, id string) (*domain.Image, error) {
	return s.repo.Get(ctx, id)
}

// List returns all records, newest first.
func (s *ImageService) List(ctx context.Context) ([]*domain.Image, error) {
	return s.repo.List(ctx)
}

// Update merges the supplied fields into an existing record. When a new
// file is uploaded it is stored first, the record is repointed at it,
// and the old blob is deleted only after the record change has
// succeeded. A failed merge deletes the newly stored blob instead, so
// neither outcome leaves an orphan behind.
func (s *ImageService) Update(ctx context.Context, id string, fields UpdateImage) (*domain.Image, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	// Fetch before storing anything: an upload aimed at a missing
	// record would be an instant orphan.
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update := domain.ImageUpdate{
		Title:       fields.Title,
		Description: fields.Description,
	}

	var newBlob *domain.StoredBlob
	oldStoredName := ""

	if fields.File != nil {
		newBlob, err = s.blobs.Store(*fields.File)
		if err != nil {
			return nil, err
		}

		update.ImageURL = &newBlob.Ref
		update.StoredName = &newBlob.Name
		oldStoredName = existing.StoredName
	}

	img, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if newBlob != nil {
			if rmErr := s.blobs.Remove(newBlob.Name); rmErr != nil {
				log.Error().Err(rmErr).Str("storedName", newBlob.Name).Msg("Failed to clean up blob after record update failure")
			}
		}
		return nil, err
	}

	// The record no longer references the old blob; its removal failing
	// must not roll back an update that already succeeded.
	if oldStoredName != "" && s.blobs.Exists(oldStoredName) {
		if rmErr := s.blobs.Remove(oldStoredName); rmErr != nil {
			log.Error().Err(rmErr).Str("storedName", oldStoredName).Msg("Failed to remove replaced blob")
		}
	}

	return img, nil
}

// Delete removes the blob, then the record. A record whose blob is
// already missing is still deleted. If the record delete fails after
// the blob is gone the record is left dangling and the failure is
// surfaced to the caller.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	img, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if img.StoredName != "" && s.blobs.Exists(img.StoredName) {
		if err := s.blobs.Remove(img.StoredName); err != nil {
			return domain.NewPersistenceError("failed to remove image blob", err)
		}
	}

	return s.repo.Delete(ctx, id)
}
