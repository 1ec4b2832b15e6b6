package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"minibadge/internal/domain"
)

type localStore struct {
	root string
}

// NewLocalStore stores images under root. The uploads base URL is expected to serve root.
func NewLocalStore(root string) (domain.ImageStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local image store: root directory is required")
	}
	return &localStore{root: root}, nil
}

func (s *localStore) Save(ctx context.Context, badgeSlug string, img *domain.ImageUpload) (string, error) {
	if err := checkImage(img); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := newImageName(badgeSlug)
	path := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	if _, err := f.Write(img.Data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return ref, nil
}

func (s *localStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !filepath.IsLocal(filepath.FromSlash(ref)) {
		return fmt.Errorf("%w: image ref %q escapes the uploads root", domain.ErrValidation, ref)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}
