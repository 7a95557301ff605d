package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jdoyle/galleria/gallery/domain"
)

func newTestStore(t *testing.T) (*DiskBlobStore, string) {
	t.Helper()
	dir := t.TempDir()

	store, err := NewDiskBlobStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("Failed to create blob store: %v", err)
	}

	return store, dir
}

func upload(name, contentType string, content []byte) domain.FileUpload {
	return domain.FileUpload{
		FieldName:    "imageFile",
		OriginalName: name,
		ContentType:  contentType,
		Size:         int64(len(content)),
		Content:      bytes.NewReader(content),
	}
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read upload dir: %v", err)
	}
	return entries
}

func TestDiskBlobStore_Store(t *testing.T) {
	content := []byte("fake image bytes")

	tests := []struct {
		name       string
		upload     domain.FileUpload
		wantErr    bool
		validation bool
	}{
		{
			name:   "jpeg accepted",
			upload: upload("photo.jpg", "image/jpeg", content),
		},
		{
			name:   "png accepted",
			upload: upload("photo.png", "image/png", content),
		},
		{
			name:   "gif accepted",
			upload: upload("anim.gif", "image/gif", content),
		},
		{
			name:   "uppercase extension accepted",
			upload: upload("PHOTO.JPG", "image/jpeg", content),
		},
		{
			name:       "text file rejected",
			upload:     upload("notes.txt", "text/plain", content),
			wantErr:    true,
			validation: true,
		},
		{
			name:       "image extension with non-image media type rejected",
			upload:     upload("fake.png", "application/octet-stream", content),
			wantErr:    true,
			validation: true,
		},
		{
			name:       "non-image extension with image media type rejected",
			upload:     upload("payload.exe", "image/png", content),
			wantErr:    true,
			validation: true,
		},
		{
			name: "oversized payload rejected",
			upload: domain.FileUpload{
				FieldName:    "imageFile",
				OriginalName: "huge.png",
				ContentType:  "image/png",
				Size:         MaxUploadSize + 1,
				Content:      bytes.NewReader(content),
			},
			wantErr:    true,
			validation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newTestStore(t)

			blob, err := store.Store(tt.upload)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.validation && !domain.IsValidation(err) {
					t.Errorf("Expected ValidationError, got %T: %v", err, err)
				}
				if got := len(dirEntries(t, dir)); got != 0 {
					t.Errorf("Rejected upload left %d files behind", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("Store failed: %v", err)
			}

			if blob.Ref != "/uploads/"+blob.Name {
				t.Errorf("Ref = %q, want %q", blob.Ref, "/uploads/"+blob.Name)
			}

			written, err := os.ReadFile(filepath.Join(dir, blob.Name))
			if err != nil {
				t.Fatalf("Failed to read stored blob: %v", err)
			}
			if !bytes.Equal(written, content) {
				t.Errorf("Stored content does not match uploaded content")
			}
		})
	}
}

func TestDiskBlobStore_StoredNameFormat(t *testing.T) {
	store, _ := newTestStore(t)

	blob, err := store.Store(upload("My Photo.PNG", "image/png", []byte("data")))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// fieldname-timestamp-random9.ext, extension lowercased
	pattern := regexp.MustCompile(`^imageFile-\d+-\d{9}\.png$`)
	if !pattern.MatchString(blob.Name) {
		t.Errorf("Stored name %q does not match expected format", blob.Name)
	}
}

func TestDiskBlobStore_StoredNamesUnique(t *testing.T) {
	store, _ := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		blob, err := store.Store(upload("photo.png", "image/png", []byte("data")))
		if err != nil {
			t.Fatalf("Store failed: %v", err)
		}
		if seen[blob.Name] {
			t.Fatalf("Duplicate stored name generated: %q", blob.Name)
		}
		seen[blob.Name] = true
	}
}

func TestDiskBlobStore_Remove(t *testing.T) {
	store, dir := newTestStore(t)

	blob, err := store.Store(upload("photo.png", "image/png", []byte("data")))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := store.Remove(blob.Name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if got := len(dirEntries(t, dir)); got != 0 {
		t.Errorf("Expected empty upload dir after remove, found %d files", got)
	}

	// Removing a missing blob is a no-op, not an error
	if err := store.Remove(blob.Name); err != nil {
		t.Errorf("Remove of missing blob returned error: %v", err)
	}
	if err := store.Remove("never-existed.png"); err != nil {
		t.Errorf("Remove of unknown blob returned error: %v", err)
	}
}

func TestDiskBlobStore_RemoveRejectsEscapingNames(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Remove(".."); err == nil {
		t.Error("Expected error for path-escaping name, got nil")
	}
}

func TestDiskBlobStore_Exists(t *testing.T) {
	store, _ := newTestStore(t)

	if store.Exists("missing.png") {
		t.Error("Exists reported true for missing blob")
	}

	blob, err := store.Store(upload("photo.png", "image/png", []byte("data")))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if !store.Exists(blob.Name) {
		t.Error("Exists reported false for stored blob")
	}
}
