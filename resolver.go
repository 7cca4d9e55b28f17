package vdisk

import (
	"context"
	"fmt"
	"path/filepath"
)

// ResolveFile maps a relative path on a disk to a validated absolute path of a
// readable regular file. Paths that escape the disk's top directory are rejected
// with ErrInvalidInput.
func (s *Service) ResolveFile(ctx context.Context, disk, relativePath string) (string, error) {
	abs, _, err := s.resolveFile(ctx, disk, relativePath)
	return abs, err
}

func (s *Service) resolveFile(ctx context.Context, disk, relativePath string) (string, int64, error) {
	if disk == "" {
		return "", 0, fmt.Errorf("resolve file: %w: empty disk name", ErrInvalidInput)
	}
	if relativePath == "" {
		return "", 0, fmt.Errorf("resolve file: %w: empty file path", ErrInvalidInput)
	}

	top, err := s.registry.ResolveDiskTop(ctx, disk)
	if err != nil {
		return "", 0, fmt.Errorf("resolve file: %w", err)
	}

	abs := filepath.Join(top, filepath.FromSlash(relativePath))
	if !IsWithin(top, abs) {
		return "", 0, fmt.Errorf("resolve file: %w: path escapes disk %s: %s", ErrInvalidInput, disk, relativePath)
	}

	size, err := s.storage.CheckFile(ctx, abs)
	if err != nil {
		return "", 0, fmt.Errorf("resolve file: %w", err)
	}

	return abs, size, nil
}
