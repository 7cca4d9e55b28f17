package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/config"
	"github.com/sagarc03/vdisk/database"
	"github.com/sagarc03/vdisk/filesystem"
)

// newService builds the service from the configuration: it opens the
// statistics backend when enabled and registers every configured disk.
// The returned close function releases the backend.
func newService(ctx context.Context, cfg *config.Config) (*vdisk.Service, func(), error) {
	closeFn := func() {}

	var counter vdisk.DownloadCounter
	if cfg.Stats.Enabled() {
		db, err := database.Open(ctx, cfg.Stats)
		if err != nil {
			return nil, nil, fmt.Errorf("open stats database: %w", err)
		}
		closeFn = func() {
			if err := db.Close(); err != nil {
				slog.Warn("failed to close stats database", "err", err)
			}
		}
		counter = db.GetCounter()
		slog.Info("download statistics enabled", "type", cfg.Stats.Type)
	}

	service, err := vdisk.NewService(filesystem.NewOsFileStorage(), vdisk.ServiceConfig{Counter: counter})
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	for _, d := range cfg.Disks {
		if err := service.RegisterDisk(ctx, d.Name, d.Top); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("register disk %s: %w", d.Name, err)
		}
		slog.Info("disk registered", "disk", d.Name, "path", d.Top)
	}

	return service, closeFn, nil
}
