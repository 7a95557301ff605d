package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jdoyle/galleria/gallery/domain"
)

var _ domain.ImageRepository = (*MemoryImageRepository)(nil)

// MemoryImageRepository implements domain.ImageRepository with an
// in-process map. It exists so the service can be exercised without a
// running MongoDB; ids keep the same ObjectID hex shape as the real
// store.
type MemoryImageRepository struct {
	mu     sync.Mutex
	images map[string]*domain.Image
}

func NewMemoryImageRepository() *MemoryImageRepository {
	return &MemoryImageRepository{
		images: make(map[string]*domain.Image),
	}
}

func (r *MemoryImageRepository) Create(ctx context.Context, img *domain.Image) (*domain.Image, error) {
	if err := validateTitle(img.Title); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *img
	stored.ID = primitive.NewObjectID().Hex()
	stored.CreatedAt = time.Now().UTC()

	r.images[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryImageRepository) Get(ctx context.Context, id string) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := *img
	return &out, nil
}

func (r *MemoryImageRepository) List(ctx context.Context) ([]*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	images := make([]*domain.Image, 0, len(r.images))
	for _, img := range r.images {
		out := *img
		images = append(images, &out)
	}

	// Newest first; fall back to id so the order is stable when
	// timestamps collide.
	sort.Slice(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.After(images[j].CreatedAt)
		}
		return images[i].ID > images[j].ID
	})

	return images, nil
}

func (r *MemoryImageRepository) Update(ctx context.Context, id string, fields domain.ImageUpdate) (*domain.Image, error) {
	if fields.Title != nil {
		if err := validateTitle(*fields.Title); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if fields.Title != nil {
		img.Title = *fields.Title
	}
	if fields.Description != nil {
		img.Description = *fields.Description
	}
	if fields.ImageURL != nil {
		img.ImageURL = *fields.ImageURL
	}
	if fields.StoredName != nil {
		img.StoredName = *fields.StoredName
	}

	out := *img
	return &out, nil
}

func (r *MemoryImageRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return domain.ErrNotFound
	}

	delete(r.images, id)
	return nil
}
