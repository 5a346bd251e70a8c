// Package upload persists multipart image uploads to local disk and hands
// back the public path stored on the suggestion row.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/happytweet/feedback-api/internal/errors"
)

// MaxFileSize caps uploaded images at 5 MB.
const MaxFileSize = 5 << 20

var allowedExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Saver writes uploads into a single directory with random file names.
type Saver struct {
	dir string
}

// NewSaver creates the upload directory if needed and returns a Saver.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{dir: dir}, nil
}

// Save validates and stores one uploaded image, returning its public
// "/uploads/<name>" path.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", apperrors.NewValidation("Image must be 5MB or smaller")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", apperrors.NewValidation("Only image files are allowed (png, jpg, jpeg, gif, webp)")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/uploads/" + name, nil
}

// Dir returns the directory uploads are written to.
func (s *Saver) Dir() string {
	return s.dir
}
