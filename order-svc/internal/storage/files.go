package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"restobar/order-svc/internal/domain"

	"github.com/google/uuid"
)

var ErrUnsupportedFile = fmt.Errorf("%w: only JPEG, PNG, GIF, WebP or PDF files are allowed", domain.ErrValidation)

var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// FileStore keeps uploads on local disk and returns their public path.
type FileStore struct {
	Dir       string
	PublicURL string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, PublicURL: "/uploads"}
}

func (s *FileStore) Save(file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	ext, ok := allowedUploadTypes[header.Header.Get("Content-Type")]
	if !ok {
		return "", ErrUnsupportedFile
	}

	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return s.PublicURL + "/" + folder + "/" + filename, nil
}
