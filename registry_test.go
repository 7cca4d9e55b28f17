package vdisk_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFs(t *testing.T, dirs []string, files map[string]string) afero.Fs {
	t.Helper()

	memFs := afero.NewMemMapFs()
	for _, d := range dirs {
		require.NoError(t, memFs.MkdirAll(d, 0o755))
	}
	for name, content := range files {
		require.NoError(t, memFs.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, afero.WriteFile(memFs, name, []byte(content), 0o644))
	}
	return memFs
}

func TestRegistry_RegisterDisk(t *testing.T) {
	memFs := newMemFs(t, []string{"/data/vid"}, map[string]string{"/data/file.txt": "x"})
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs())
	ctx := context.Background()

	require.NoError(t, reg.RegisterDisk(ctx, "Vid", "/data/vid"))

	top, err := reg.ResolveDiskTop(ctx, "Vid")
	require.NoError(t, err)
	assert.Equal(t, "/data/vid", top)
	assert.Equal(t, []string{"Vid"}, reg.DiskNames())
}

func TestRegistry_RegisterDisk_Errors(t *testing.T) {
	memFs := newMemFs(t, []string{"/data/vid"}, map[string]string{"/data/file.txt": "x"})
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs())
	ctx := context.Background()

	tests := []struct {
		name    string
		disk    string
		top     string
		wantErr error
	}{
		{name: "missing directory", disk: "X", top: "/data/missing", wantErr: vdisk.ErrNotFound},
		{name: "regular file", disk: "X", top: "/data/file.txt", wantErr: vdisk.ErrNotADirectory},
		{name: "empty name", disk: "", top: "/data/vid", wantErr: vdisk.ErrInvalidInput},
		{name: "empty top", disk: "X", top: "", wantErr: vdisk.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.RegisterDisk(ctx, tt.disk, tt.top)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, reg.DiskNames(), "failed registrations leave the registry untouched")
}

func TestRegistry_RegisterDisk_Overwrites(t *testing.T) {
	memFs := newMemFs(t, []string{"/a", "/b"}, nil)
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs())
	ctx := context.Background()

	require.NoError(t, reg.RegisterDisk(ctx, "D", "/a"))
	require.NoError(t, reg.RegisterDisk(ctx, "D", "/b"))

	top, err := reg.ResolveDiskTop(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, "/b", top)
	assert.Equal(t, []string{"D"}, reg.DiskNames())
}

func TestRegistry_RegisterDisk_RelativeTop(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)
	require.NoError(t, os.Mkdir("rel", 0o755))

	reg := vdisk.NewRegistry(filesystem.NewOsFileStorage(), vdisk.WithSearchDirs())
	ctx := context.Background()

	require.NoError(t, reg.RegisterDisk(ctx, "R", "rel"))

	top, err := reg.ResolveDiskTop(ctx, "R")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(top))
	assert.Equal(t, "rel", filepath.Base(top))
}

func TestRegistry_ResolveDiskTop_Unknown(t *testing.T) {
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(afero.NewMemMapFs()), vdisk.WithSearchDirs())

	_, err := reg.ResolveDiskTop(context.Background(), "Nope")
	assert.ErrorIs(t, err, vdisk.ErrDiskNotFound)

	_, err = reg.ResolveDiskTop(context.Background(), "")
	assert.ErrorIs(t, err, vdisk.ErrInvalidInput)
}

func TestRegistry_ResolveDiskTop_Revalidates(t *testing.T) {
	memFs := newMemFs(t, []string{"/data/vid"}, nil)
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs())
	ctx := context.Background()

	require.NoError(t, reg.RegisterDisk(ctx, "Vid", "/data/vid"))
	require.NoError(t, memFs.RemoveAll("/data/vid"))

	_, err := reg.ResolveDiskTop(ctx, "Vid")
	assert.ErrorIs(t, err, vdisk.ErrNotFound)

	require.NoError(t, afero.WriteFile(memFs, "/data/vid", []byte("now a file"), 0o644))

	_, err = reg.ResolveDiskTop(ctx, "Vid")
	assert.ErrorIs(t, err, vdisk.ErrNotADirectory)
}

func TestRegistry_DefaultDisk_Discovery(t *testing.T) {
	tests := []struct {
		name    string
		dirs    []string
		want    string
		wantErr error
	}{
		{
			name: "first search dir wins",
			dirs: []string{"/work/DefaultDisk", "/home/DefaultDisk"},
			want: "/work/DefaultDisk",
		},
		{
			name: "falls back to second search dir",
			dirs: []string{"/work", "/home/DefaultDisk"},
			want: "/home/DefaultDisk",
		},
		{
			name:    "not found anywhere",
			dirs:    []string{"/work", "/home"},
			wantErr: vdisk.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFs := newMemFs(t, tt.dirs, nil)
			reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs("/work", "/home"))

			top, err := reg.ResolveDiskTop(context.Background(), vdisk.DefaultDiskName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "/work")
				assert.Contains(t, err.Error(), "/home")
				assert.Empty(t, reg.DiskNames())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, top)
			assert.Equal(t, []string{vdisk.DefaultDiskName}, reg.DiskNames())
		})
	}
}

func TestRegistry_DefaultDisk_DefaultDiskTopDoesNotRegister(t *testing.T) {
	memFs := newMemFs(t, []string{"/work/DefaultDisk"}, nil)
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs("/work"))

	top, err := reg.DefaultDiskTop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/work/DefaultDisk", top)
	assert.Empty(t, reg.DiskNames())
}

func TestRegistry_DefaultDisk_ExplicitRegistrationWins(t *testing.T) {
	memFs := newMemFs(t, []string{"/work/DefaultDisk", "/custom"}, nil)
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs("/work"))
	ctx := context.Background()

	require.NoError(t, reg.RegisterDisk(ctx, vdisk.DefaultDiskName, "/custom"))

	top, err := reg.ResolveDiskTop(ctx, vdisk.DefaultDiskName)
	require.NoError(t, err)
	assert.Equal(t, "/custom", top)
}

func TestRegistry_DefaultDisk_ConcurrentFirstUse(t *testing.T) {
	memFs := newMemFs(t, []string{"/work/DefaultDisk"}, nil)
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs("/work"))

	var wg sync.WaitGroup
	results := make([]string, 20)
	errs := make([]error, 20)

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = reg.ResolveDiskTop(context.Background(), vdisk.DefaultDiskName)
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "/work/DefaultDisk", results[i])
	}
	assert.Equal(t, []string{vdisk.DefaultDiskName}, reg.DiskNames())
}

func TestRegistry_DiskNames_Sorted(t *testing.T) {
	memFs := newMemFs(t, []string{"/c", "/a", "/b"}, nil)
	reg := vdisk.NewRegistry(filesystem.NewFileStorage(memFs), vdisk.WithSearchDirs())
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, reg.RegisterDisk(ctx, name, "/"+name))
	}

	assert.Equal(t, []string{"a", "b", "c"}, reg.DiskNames())
}
