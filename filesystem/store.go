// Package filesystem provides the afero-backed file storage for vdisk.
// It validates directories and files, opens files for streaming and walks
// disk trees, translating filesystem errors into vdisk sentinel errors.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"syscall"

	"github.com/sagarc03/vdisk"
	"github.com/spf13/afero"
)

// Store provides file system storage operations on absolute paths.
type Store struct {
	fs afero.Fs
}

// NewFileStorage creates a Store on top of fs.
func NewFileStorage(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOsFileStorage creates a Store backed by the operating system filesystem.
func NewOsFileStorage() *Store {
	return NewFileStorage(afero.NewOsFs())
}

// CheckDir returns nil when path is an existing, readable directory.
func (s *Store) CheckDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return statError(path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", vdisk.ErrNotADirectory, path)
	}

	return s.checkReadable(path)
}

// CheckFile returns the size of path when it is an existing, readable regular file.
func (s *Store) CheckFile(ctx context.Context, path string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return 0, statError(path, err)
	}

	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s", vdisk.ErrNotAFile, path)
	}

	if err := s.checkReadable(path); err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Open opens a file for reading. Returns vdisk.ErrNotFound if the file does not exist.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, statError(path, err)
	}

	return f, nil
}

// Walk recursively lists the regular files under top as slash-separated
// relative paths. Directory entries are visited in lexical order. Symbolic
// links to regular files are listed; links to directories are not followed.
func (s *Store) Walk(ctx context.Context, top string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := []string{}

	if err := s.walkDir(ctx, top, "", &files); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %s: %w: %w", top, vdisk.ErrIO, err)
	}

	return files, nil
}

func (s *Store) walkDir(ctx context.Context, dir, rel string, files *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		entryPath := filepath.Join(dir, entry.Name())
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}

		switch mode := entry.Mode(); {
		case mode.IsDir():
			if err := s.walkDir(ctx, entryPath, entryRel, files); err != nil {
				return err
			}
		case mode.IsRegular():
			*files = append(*files, entryRel)
		case mode&fs.ModeSymlink != 0:
			target, err := s.fs.Stat(entryPath)
			if err != nil {
				slog.Debug("skipping dangling link", "path", entryPath, "err", err)
				continue
			}
			if target.Mode().IsRegular() {
				*files = append(*files, entryRel)
			}
		}
	}

	return nil
}

func (s *Store) checkReadable(path string) error {
	f, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", vdisk.ErrNotReadable, path)
		}
		return statError(path, err)
	}

	if closeErr := f.Close(); closeErr != nil {
		slog.Warn("failed to close file", "path", path, "err", closeErr)
	}

	return nil
}

func statError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("%w: %s", vdisk.ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", vdisk.ErrNotReadable, path)
	default:
		return fmt.Errorf("%w: %s: %w", vdisk.ErrIO, path, err)
	}
}

var _ vdisk.FileStorage = (*Store)(nil)
