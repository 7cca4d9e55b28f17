package filesystem_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T, files map[string]string) *filesystem.Store {
	t.Helper()

	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("/disk", 0o755))
	for name, content := range files {
		p := filepath.Join("/disk", filepath.FromSlash(name))
		require.NoError(t, memFs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(memFs, p, []byte(content), 0o644))
	}

	return filesystem.NewFileStorage(memFs)
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

func TestStore_CheckDir(t *testing.T) {
	store := newMemStore(t, map[string]string{"a.txt": "a", "sub/b.txt": "b"})
	ctx := context.Background()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "directory", path: "/disk", wantErr: nil},
		{name: "nested directory", path: "/disk/sub", wantErr: nil},
		{name: "missing", path: "/nope", wantErr: vdisk.ErrNotFound},
		{name: "regular file", path: "/disk/a.txt", wantErr: vdisk.ErrNotADirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.CheckDir(ctx, tt.path)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestStore_CheckDir_ContextCanceled(t *testing.T) {
	store := newMemStore(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.CheckDir(ctx, "/disk")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_CheckFile(t *testing.T) {
	store := newMemStore(t, map[string]string{"a.txt": "hello", "sub/b.txt": "b"})
	ctx := context.Background()

	size, err := store.CheckFile(ctx, "/disk/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = store.CheckFile(ctx, "/disk/sub")
	assert.ErrorIs(t, err, vdisk.ErrNotAFile)

	_, err = store.CheckFile(ctx, "/disk/missing.txt")
	assert.ErrorIs(t, err, vdisk.ErrNotFound)
}

func TestStore_CheckFile_ThroughFile(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("a"), 0o644))

	store := filesystem.NewOsFileStorage()

	_, err := store.CheckFile(context.Background(), filepath.Join(tempDir, "a.txt", "b.txt"))
	assert.ErrorIs(t, err, vdisk.ErrNotFound)
}

func TestStore_Open(t *testing.T) {
	store := newMemStore(t, map[string]string{"a.txt": "hello"})
	ctx := context.Background()

	rc, err := store.Open(ctx, "/disk/a.txt")
	require.NoError(t, err)

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.NoError(t, rc.Close())

	_, err = store.Open(ctx, "/disk/missing.txt")
	assert.ErrorIs(t, err, vdisk.ErrNotFound)
}

func TestStore_Walk(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"b.txt":             "b",
		"a.txt":             "a",
		"sub/c.jpg":         "c",
		"sub/deeper/d.png":  "d",
		"sub/.DS_Store":     "meta",
		"with space/e.html": "e",
	})

	files, err := store.Walk(context.Background(), "/disk")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a.txt",
		"b.txt",
		"sub/.DS_Store",
		"sub/c.jpg",
		"sub/deeper/d.png",
		"with space/e.html",
	}, files)
}

func TestStore_Walk_Empty(t *testing.T) {
	store := newMemStore(t, nil)

	files, err := store.Walk(context.Background(), "/disk")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestStore_Walk_MissingTop(t *testing.T) {
	store := newMemStore(t, nil)

	files, err := store.Walk(context.Background(), "/gone")
	assert.ErrorIs(t, err, vdisk.ErrIO)
	assert.Nil(t, files)
}

func TestStore_Walk_ContextCanceled(t *testing.T) {
	store := newMemStore(t, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Walk(ctx, "/disk")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Walk_Symlinks(t *testing.T) {
	tempDir := t.TempDir()
	outside := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "real.txt"), []byte("r"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "o.txt"), []byte("o"), 0o644))

	if err := os.Symlink(filepath.Join(tempDir, "real.txt"), filepath.Join(tempDir, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(tempDir, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "dangling")))

	store := filesystem.NewOsFileStorage()

	files, err := store.Walk(context.Background(), tempDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"link.txt", "real.txt"}, files)
}

func TestStore_Permissions(t *testing.T) {
	skipIfRoot(t)

	tempDir := t.TempDir()
	locked := filepath.Join(tempDir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	secret := filepath.Join(tempDir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("s"), 0o644))

	require.NoError(t, os.Chmod(locked, 0o000))
	require.NoError(t, os.Chmod(secret, 0o000))
	t.Cleanup(func() {
		_ = os.Chmod(locked, 0o755)
		_ = os.Chmod(secret, 0o644)
	})

	store := filesystem.NewOsFileStorage()
	ctx := context.Background()

	assert.ErrorIs(t, store.CheckDir(ctx, locked), vdisk.ErrNotReadable)

	_, err := store.CheckFile(ctx, secret)
	assert.ErrorIs(t, err, vdisk.ErrNotReadable)

	_, err = store.Walk(ctx, tempDir)
	assert.ErrorIs(t, err, vdisk.ErrIO)
}
