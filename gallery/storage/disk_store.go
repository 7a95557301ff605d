package storage

import (
	"fmt"
	"io"
	"math/rand"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jdoyle/galleria/gallery/domain"
)

var _ domain.BlobStore = (*DiskBlobStore)(nil)

// MaxUploadSize is the largest payload the store accepts.
const MaxUploadSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// DiskBlobStore persists uploaded images as files in a local directory
// and hands out references under a public path prefix.
type DiskBlobStore struct {
	dir        string
	publicPath string
}

// NewDiskBlobStore creates the upload directory if needed and returns a
// store rooted there. publicPath is the URL prefix blobs are served
// under (e.g. "/uploads").
func NewDiskBlobStore(dir, publicPath string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &DiskBlobStore{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
	}, nil
}

// Store validates the upload and writes it under a generated unique
// name. Validation happens entirely before the write, so a rejected
// upload leaves no file behind.
func (s *DiskBlobStore) Store(upload domain.FileUpload) (*domain.StoredBlob, error) {
	ext := strings.ToLower(filepath.Ext(upload.OriginalName))

	if !allowedExtensions[ext] || !isImageMediaType(upload.ContentType) {
		return nil, domain.NewValidationError("only image files (JPEG, PNG, GIF) are allowed")
	}

	if upload.Size > MaxUploadSize {
		return nil, domain.NewValidationError("file exceeds the %d byte size limit", MaxUploadSize)
	}

	name := generateStoredName(upload.FieldName, ext)
	dest := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob file: %w", err)
	}

	// The declared size is what was validated; never write past it even
	// if the reader has more to give.
	if _, err := io.Copy(f, io.LimitReader(upload.Content, MaxUploadSize)); err != nil {
		f.Close()
		os.Remove(dest)
		return nil, fmt.Errorf("failed to write blob file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dest)
		return nil, fmt.Errorf("failed to close blob file: %w", err)
	}

	return &domain.StoredBlob{
		Name: name,
		Ref:  s.publicPath + "/" + name,
	}, nil
}

// Remove deletes a blob by stored name. An already-missing blob is
// tolerated so cleanup paths can fire unconditionally.
func (s *DiskBlobStore) Remove(storedName string) error {
	local, err := s.resolve(storedName)
	if err != nil {
		return err
	}

	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob file: %w", err)
	}

	return nil
}

// Exists reports whether the named blob is present on disk.
func (s *DiskBlobStore) Exists(storedName string) bool {
	local, err := s.resolve(storedName)
	if err != nil {
		return false
	}

	_, err = os.Stat(local)
	return err == nil
}

// resolve maps a stored name onto the upload directory, rejecting names
// that would escape it.
func (s *DiskBlobStore) resolve(storedName string) (string, error) {
	name := path.Base(storedName)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid stored name: %q", storedName)
	}

	return filepath.Join(s.dir, name), nil
}

func isImageMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mediaType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif":
		return true
	}
	return false
}

// generateStoredName builds a collision-resistant filename from the
// form field name, the current time, and a random suffix. No central
// sequence is involved, so concurrent uploads cannot contend.
func generateStoredName(fieldName, ext string) string {
	if fieldName == "" {
		fieldName = "imageFile"
	}
	return fmt.Sprintf("%s-%d-%09d%s", fieldName, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
