package vdisk

import (
	"context"
	"errors"
	"fmt"
)

// ListFiles walks every regular file under a disk and returns one download URL
// per file, built as uriPrefix + "/" + EncodePath(relative path).
// .DS_Store files are skipped. Any failure during the walk discards the partial
// result and returns ErrIO.
func (s *Service) ListFiles(ctx context.Context, disk, uriPrefix string) (Listing, error) {
	if disk == "" {
		return Listing{}, fmt.Errorf("list files: %w: empty disk name", ErrInvalidInput)
	}

	top, err := s.registry.ResolveDiskTop(ctx, disk)
	if err != nil {
		return Listing{}, fmt.Errorf("list files: %w", err)
	}

	files, err := s.storage.Walk(ctx, top)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Listing{}, err
		}
		if errors.Is(err, ErrIO) {
			return Listing{}, fmt.Errorf("list files %s: %w", disk, err)
		}
		return Listing{}, fmt.Errorf("list files %s: %w: %w", disk, ErrIO, err)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		if isHidden(f) {
			continue
		}
		urls = append(urls, uriPrefix+"/"+EncodePath(f))
	}

	return Listing{Disk: disk, URLs: urls}, nil
}
