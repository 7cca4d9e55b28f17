package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/config"
	vdiskhttp "github.com/sagarc03/vdisk/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the vdisk HTTP server.

Disks come from the "disks" config list and from repeatable --disk flags.
A directory named DefaultDisk in the working or home directory is served
as the default disk.

Examples:
  vdisk serve -p 8090 -d Vid=/media/videos -d Music=/media/music
  vdisk serve --config config.yaml --stats-type sqlite --stats-dsn vdisk.db`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8090, "HTTP server port (env: VDISK_SERVER_PORT)")
	serveCmd.Flags().StringArrayP("disk", "d", nil, "disk to serve as name=dir, repeatable")
	serveCmd.Flags().String("base-path", "", "API mount point (default: "+vdiskhttp.DefaultBasePath+")")
	serveCmd.Flags().String("index-path", "", "index page mount point (default: "+vdiskhttp.DefaultIndexPath+")")
	serveCmd.Flags().String("static-dir", "", "directory served at the index path instead of the built-in page")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	// best effort; the default disk is looked up again on first use
	if _, err := service.ResolveDiskTop(ctx, vdisk.DefaultDiskName); err != nil {
		slog.Info("default disk not available", "err", err)
	}

	handlerConfig := vdiskhttp.HandlerConfig{
		BasePath:  cfg.Server.BasePath,
		IndexPath: cfg.Server.IndexPath,
		StaticDir: cfg.Server.StaticDir,
		CORS:      cfg.CORS,
	}

	handler := vdiskhttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	// no write timeout: file downloads can run for a long time
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "base_path", cfg.Server.BasePath, "disks", service.ListDisks(ctx).Disks)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
