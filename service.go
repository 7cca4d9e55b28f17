package vdisk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
)

// FileStorage defines the filesystem operations the service needs.
// Paths passed to every method are absolute.
//
// All methods accept a context for cancellation. Implementations translate
// underlying errors into the package sentinels so callers can classify them
// with errors.Is.
type FileStorage interface {
	// CheckDir verifies that path exists, is a directory and can be read.
	//
	// Returns:
	//   - error: ErrNotFound, ErrNotADirectory or ErrNotReadable, wrapped with the path
	CheckDir(ctx context.Context, path string) error

	// CheckFile verifies that path exists, is a regular file and can be read.
	// Symbolic links are followed.
	//
	// Returns:
	//   - int64: The size of the file in bytes
	//   - error: ErrNotFound, ErrNotAFile or ErrNotReadable, wrapped with the path
	CheckFile(ctx context.Context, path string) (int64, error)

	// Open opens a regular file for reading. The caller closes the returned reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Walk recursively collects every regular file beneath top.
	//
	// Returns:
	//   - []string: Slash-separated paths relative to top, lexical order per directory
	//   - error: ErrIO wrapping the first failure; no partial result is returned
	//
	// Implementations must return an empty slice (not nil) for an empty tree and
	// must not follow symbolic links to directories.
	Walk(ctx context.Context, top string) ([]string, error)
}

// DownloadCounter records how often files are downloaded.
// Implementations must be safe for concurrent use.
type DownloadCounter interface {
	// Increment adds one download of path on disk and returns the new total.
	Increment(ctx context.Context, disk, path string) (int64, error)

	// List returns the counters of a disk ordered by path.
	// A disk with no downloads yields an empty slice.
	List(ctx context.Context, disk string) ([]DownloadCount, error)
}

// File is an opened file ready to be streamed to a client.
type File struct {
	Path        string
	Size        int64
	ContentType string
	Content     io.ReadCloser
}

// Service ties the disk registry, the download gate, file storage and the
// optional download counter together. It is safe for concurrent use.
type Service struct {
	registry *Registry
	gate     *Gate
	storage  FileStorage
	counter  DownloadCounter
}

// ServiceConfig holds configuration options for Service.
type ServiceConfig struct {
	// SearchDirs overrides the directories probed for DefaultDisk (default: working and home directory).
	SearchDirs []string
	// Counter records downloads. Nil disables statistics.
	Counter DownloadCounter
}

func NewService(storage FileStorage, cfg ServiceConfig) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("new service: %w: storage is required", ErrInvalidInput)
	}

	var opts []RegistryOption
	if cfg.SearchDirs != nil {
		opts = append(opts, WithSearchDirs(cfg.SearchDirs...))
	}

	return &Service{
		registry: NewRegistry(storage, opts...),
		gate:     &Gate{},
		storage:  storage,
		counter:  cfg.Counter,
	}, nil
}

// RegisterDisk registers or replaces a disk. See Registry.RegisterDisk.
func (s *Service) RegisterDisk(ctx context.Context, name, top string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("register disk: %w", err)
	}
	return s.registry.RegisterDisk(ctx, name, top)
}

// ResolveDiskTop returns the validated top directory of a disk.
func (s *Service) ResolveDiskTop(ctx context.Context, name string) (string, error) {
	return s.registry.ResolveDiskTop(ctx, name)
}

// DefaultDiskTop locates the default disk directory without registering it.
func (s *Service) DefaultDiskTop(ctx context.Context) (string, error) {
	return s.registry.DefaultDiskTop(ctx)
}

func (s *Service) ListDisks(_ context.Context) DiskList {
	return DiskList{Disks: s.registry.DiskNames()}
}

func (s *Service) Pause() {
	s.gate.Pause()
	slog.Info("downloads paused")
}

func (s *Service) Resume() {
	s.gate.Resume()
	slog.Info("downloads resumed")
}

func (s *Service) Paused() bool {
	return s.gate.Paused()
}

// OpenFile opens a file of a disk for download.
//
// The method performs the following steps:
//  1. Refuses with ErrUnavailable while downloads are paused, before touching the filesystem
//  2. Resolves and validates the file through ResolveFile
//  3. Opens the file
//  4. Records the download when a counter is configured
//
// A failing counter is logged and does not fail the download.
// The caller closes File.Content.
func (s *Service) OpenFile(ctx context.Context, disk, relativePath string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, fmt.Errorf("open file: %w", err)
	}

	if s.gate.Paused() {
		return File{}, fmt.Errorf("open file: %w: downloads are paused", ErrUnavailable)
	}

	abs, size, err := s.resolveFile(ctx, disk, relativePath)
	if err != nil {
		return File{}, fmt.Errorf("open file: %w", err)
	}

	rc, err := s.storage.Open(ctx, abs)
	if err != nil {
		return File{}, fmt.Errorf("open file: %w", err)
	}

	if s.counter != nil {
		key := strings.TrimPrefix(path.Clean("/"+relativePath), "/")
		if _, countErr := s.counter.Increment(ctx, disk, key); countErr != nil {
			slog.Warn("failed to record download", "disk", disk, "path", key, "err", countErr)
		}
	}

	return File{
		Path:        abs,
		Size:        size,
		ContentType: MediaType(abs),
		Content:     rc,
	}, nil
}

// DownloadStats returns the recorded download counts of a disk.
//
// Error types returned:
//   - ErrStatsDisabled: no counter is configured
//   - ErrInvalidInput: empty disk name
func (s *Service) DownloadStats(ctx context.Context, disk string) (DownloadStats, error) {
	if s.counter == nil {
		return DownloadStats{}, fmt.Errorf("download stats: %w", ErrStatsDisabled)
	}

	if disk == "" {
		return DownloadStats{}, fmt.Errorf("download stats: %w: empty disk name", ErrInvalidInput)
	}

	files, err := s.counter.List(ctx, disk)
	if err != nil {
		return DownloadStats{}, fmt.Errorf("download stats %s: %w", disk, err)
	}

	if files == nil {
		files = []DownloadCount{}
	}

	return DownloadStats{Disk: disk, Files: files}, nil
}

// IsClientError reports whether err is caused by the request rather than the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDiskNotFound) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotADirectory) ||
		errors.Is(err, ErrNotAFile) ||
		errors.Is(err, ErrNotReadable)
}
