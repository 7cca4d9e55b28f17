package vdisk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// searchDir names one parent directory probed for the default disk.
type searchDir struct {
	name string
	dir  func() (string, error)
}

var defaultSearchDirs = []searchDir{
	{name: "current directory", dir: os.Getwd},
	{name: "home directory", dir: os.UserHomeDir},
}

// Registry maps disk names to absolute top directories.
// It is safe for concurrent use.
type Registry struct {
	storage    FileStorage
	searchDirs []searchDir

	mu    sync.RWMutex
	disks map[string]string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSearchDirs replaces the directories probed for the default disk.
// Each directory is checked for an immediate child named DefaultDiskName, in order.
func WithSearchDirs(dirs ...string) RegistryOption {
	return func(r *Registry) {
		r.searchDirs = make([]searchDir, 0, len(dirs))
		for _, d := range dirs {
			r.searchDirs = append(r.searchDirs, searchDir{
				name: d,
				dir:  func() (string, error) { return d, nil },
			})
		}
	}
}

// NewRegistry creates an empty registry that validates directories through storage.
func NewRegistry(storage FileStorage, opts ...RegistryOption) *Registry {
	r := &Registry{
		storage:    storage,
		searchDirs: defaultSearchDirs,
		disks:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterDisk validates top and maps name to its absolute path.
// Registering an existing name replaces its top directory.
//
// Error types returned:
//   - ErrInvalidInput: empty name or top
//   - ErrNotFound: top does not exist
//   - ErrNotADirectory: top is not a directory
//   - ErrNotReadable: top cannot be read
func (r *Registry) RegisterDisk(ctx context.Context, name, top string) error {
	if name == "" {
		return fmt.Errorf("register disk: %w: empty disk name", ErrInvalidInput)
	}
	if top == "" {
		return fmt.Errorf("register disk %s: %w: empty top directory", name, ErrInvalidInput)
	}

	abs, err := filepath.Abs(top)
	if err != nil {
		return fmt.Errorf("register disk %s: %w: %w", name, ErrInvalidInput, err)
	}

	if err := r.storage.CheckDir(ctx, abs); err != nil {
		return fmt.Errorf("register disk %s: %w", name, err)
	}

	r.mu.Lock()
	r.disks[name] = abs
	r.mu.Unlock()

	return nil
}

// ResolveDiskTop returns the top directory of a disk, re-validating it on every call
// since it may have been removed or made unreadable after registration.
// The default disk is discovered and registered on first use.
func (r *Registry) ResolveDiskTop(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("resolve disk: %w: empty disk name", ErrInvalidInput)
	}

	r.mu.RLock()
	top, ok := r.disks[name]
	r.mu.RUnlock()

	if !ok {
		if name != DefaultDiskName {
			return "", fmt.Errorf("resolve disk: %w: no such disk: %s", ErrDiskNotFound, name)
		}
		return r.registerDefault(ctx)
	}

	if err := r.storage.CheckDir(ctx, top); err != nil {
		return "", fmt.Errorf("resolve disk %s: %w", name, err)
	}

	return top, nil
}

// DiskNames returns the registered disk names in sorted order.
func (r *Registry) DiskNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.disks))
	for name := range r.disks {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (r *Registry) registerDefault(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// another request may have finished discovery while we waited for the lock
	if top, ok := r.disks[DefaultDiskName]; ok {
		if err := r.storage.CheckDir(ctx, top); err != nil {
			return "", fmt.Errorf("resolve disk %s: %w", DefaultDiskName, err)
		}
		return top, nil
	}

	top, err := r.discoverDefault(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve disk %s: %w", DefaultDiskName, err)
	}

	r.disks[DefaultDiskName] = top
	slog.Info("default disk registered", "path", top)

	return top, nil
}

// DefaultDiskTop locates the default disk directory without registering it.
func (r *Registry) DefaultDiskTop(ctx context.Context) (string, error) {
	return r.discoverDefault(ctx)
}

func (r *Registry) discoverDefault(ctx context.Context) (string, error) {
	tried := make([]string, 0, len(r.searchDirs))

	for _, sd := range r.searchDirs {
		parent, err := sd.dir()
		if err != nil || parent == "" {
			slog.Warn("default disk search location unavailable", "location", sd.name, "err", err)
			tried = append(tried, sd.name+" (unavailable)")
			continue
		}

		candidate, err := filepath.Abs(filepath.Join(parent, DefaultDiskName))
		if err != nil {
			tried = append(tried, parent)
			continue
		}

		if err := r.storage.CheckDir(ctx, candidate); err == nil {
			return candidate, nil
		}
		tried = append(tried, parent)
	}

	return "", fmt.Errorf("%w: a readable directory named %s was not found in: %s",
		ErrNotFound, DefaultDiskName, strings.Join(tried, ", "))
}
