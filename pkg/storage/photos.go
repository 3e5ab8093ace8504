// Package storage keeps vote capture photos on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	dErrors "unionhub/pkg/domain-errors"
)

const maxPhotoBytes = 5 << 20

// PhotoStore writes each photo under a date-partitioned directory.
type PhotoStore struct {
	root string
	now  func() time.Time
}

func NewPhotoStore(root string) *PhotoStore {
	return &PhotoStore{root: root, now: time.Now}
}

// Put stores data and returns its path relative to the store root.
func (s *PhotoStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", dErrors.New(dErrors.CodeValidation, "photo is empty")
	}
	if len(data) > maxPhotoBytes {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("photo exceeds %d bytes", maxPhotoBytes))
	}
	if ext == "" {
		ext = ".jpg"
	}
	rel := filepath.Join(s.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o640); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a photo previously returned by Put. Missing files are not an
// error; paths that leave the store root are refused.
func (s *PhotoStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return dErrors.New(dErrors.CodeValidation, "photo path is outside the store")
	}
	if err := os.Remove(filepath.Join(s.root, rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
