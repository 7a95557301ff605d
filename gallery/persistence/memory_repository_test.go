package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jdoyle/galleria/gallery/domain"
)

func seedImage(t *testing.T, repo *MemoryImageRepository, title string) *domain.Image {
	t.Helper()

	img, err := repo.Create(context.Background(), &domain.Image{
		Title:      title,
		ImageURL:   "/uploads/" + title + ".png",
		StoredName: title + ".png",
	})
	if err != nil {
		t.Fatalf("Failed to seed image %q: %v", title, err)
	}
	return img
}

func TestMemoryImageRepository_Create(t *testing.T) {
	repo := NewMemoryImageRepository()
	ctx := context.Background()

	img := seedImage(t, repo, "first")

	if img.ID == "" {
		t.Error("Create did not assign an id")
	}
	if img.CreatedAt.IsZero() {
		t.Error("Create did not assign a creation time")
	}

	// ids keep the ObjectID hex shape
	if len(img.ID) != 24 {
		t.Errorf("id %q is not 24 hex chars", img.ID)
	}

	_, err := repo.Create(ctx, &domain.Image{Title: ""})
	if !domain.IsValidation(err) {
		t.Errorf("Expected ValidationError for empty title, got %v", err)
	}
}

func TestMemoryImageRepository_GetAndDelete(t *testing.T) {
	repo := NewMemoryImageRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	img := seedImage(t, repo, "keeper")

	got, err := repo.Get(ctx, img.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "keeper" {
		t.Errorf("Title = %q, want %q", got.Title, "keeper")
	}

	if err := repo.Delete(ctx, img.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, img.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Second delete: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryImageRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryImageRepository()
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		seedImage(t, repo, title)
		time.Sleep(2 * time.Millisecond)
	}

	images, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"c", "b", "a"}
	if len(images) != len(want) {
		t.Fatalf("Expected %d images, got %d", len(want), len(images))
	}
	for i, title := range want {
		if images[i].Title != title {
			t.Errorf("images[%d].Title = %q, want %q", i, images[i].Title, title)
		}
	}
}

func TestMemoryImageRepository_Update(t *testing.T) {
	repo := NewMemoryImageRepository()
	ctx := context.Background()

	img := seedImage(t, repo, "original")

	title := "renamed"
	description := "fresh description"
	updated, err := repo.Update(ctx, img.ID, domain.ImageUpdate{
		Title:       &title,
		Description: &description,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "renamed" || updated.Description != "fresh description" {
		t.Errorf("Fields = %q/%q, want renamed/fresh description", updated.Title, updated.Description)
	}
	if updated.StoredName != img.StoredName {
		t.Error("Partial update changed an unsupplied field")
	}

	empty := ""
	if _, err := repo.Update(ctx, img.ID, domain.ImageUpdate{Title: &empty}); !domain.IsValidation(err) {
		t.Errorf("Expected ValidationError for empty title, got %v", err)
	}

	// A rejected update must not mutate the stored record
	got, err := repo.Get(ctx, img.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("Rejected update mutated the record: title = %q", got.Title)
	}

	if _, err := repo.Update(ctx, "missing", domain.ImageUpdate{Title: &title}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
