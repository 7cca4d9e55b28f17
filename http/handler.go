package http

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/vdisk"
	"github.com/spf13/afero"
)

const (
	// DefaultBasePath is where the API routes are mounted.
	DefaultBasePath = "/FileAccessService/api/fileAccessor"
	// DefaultIndexPath is where the index page is served.
	DefaultIndexPath = "/FileAccessService"

	copyBufferSize   = 1 << 20
	maxNewDiskBody   = 64 << 10
	pausedBody       = "pause"
	resumedBody      = "resume"
	allowOriginValue = "*"
)

//go:embed static
var staticFiles embed.FS

type Service interface {
	ListFiles(ctx context.Context, disk, uriPrefix string) (vdisk.Listing, error)
	OpenFile(ctx context.Context, disk, relativePath string) (vdisk.File, error)
	RegisterDisk(ctx context.Context, name, top string) error
	ListDisks(ctx context.Context) vdisk.DiskList
	Pause()
	Resume()
	DownloadStats(ctx context.Context, disk string) (vdisk.DownloadStats, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	BasePath  string // API mount point (default: DefaultBasePath)
	IndexPath string // index page mount point (default: DefaultIndexPath)
	StaticDir string // directory served at IndexPath; empty serves the built-in page
	CORS      CORSConfig
}

// Handler provides HTTP handlers for virtual disk operations.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = DefaultIndexPath
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	cfg.IndexPath = "/" + strings.Trim(cfg.IndexPath, "/")

	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with the API mounted under the base path and
// the index page under the index path. Every response allows any origin.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(middleware.SetHeader("Access-Control-Allow-Origin", allowOriginValue))

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route(h.config.BasePath, func(r chi.Router) {
		r.Get("/fileList", h.handleListDefault)
		r.Get("/fileList/{diskName}", h.handleList)
		r.Get("/file/{diskName}/*", h.handleFile)
		r.Post("/newDisk/{diskName}", h.handleNewDisk)
		r.Get("/diskList", h.handleDiskList)
		r.Get("/pause", h.handlePause)
		r.Get("/resume", h.handleResume)
		r.Get("/stats/{diskName}", h.handleStats)

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			WriteError(w, http.StatusNotFound, "not_found", "No such operation")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		})
	})

	if h.config.IndexPath != h.config.BasePath {
		index := h.indexHandler()
		r.Get(h.config.IndexPath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, h.config.IndexPath+"/", http.StatusMovedPermanently)
		})
		r.Get(h.config.IndexPath+"/*", http.StripPrefix(h.config.IndexPath, index).ServeHTTP)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDefaultNotFound(w)
	})

	return r
}

func (h *Handler) indexHandler() http.Handler {
	if h.config.StaticDir != "" {
		httpFs := afero.NewHttpFs(afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), h.config.StaticDir)))
		return http.FileServer(httpFs.Dir("/"))
	}

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the embedded directory is part of the binary
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func (h *Handler) handleListDefault(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, vdisk.DefaultDiskName)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	disk, err := urlParam(r, "diskName")
	if err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}
	h.list(w, r, disk)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, disk string) {
	requestURI := absoluteRequestURI(r)
	slog.Debug("list files", "disk", disk, "uri", requestURI, "remote", r.RemoteAddr)

	prefix, err := vdisk.ToFileURIPrefix(requestURI, disk)
	if err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}

	listing, err := h.service.ListFiles(r.Context(), disk, prefix)
	if err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}

	_ = WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	disk, err := urlParam(r, "diskName")
	if err != nil {
		HandleError(w, err, SubjectFile)
		return
	}

	relativePath, err := urlParam(r, "*")
	if err != nil {
		HandleError(w, err, SubjectFile)
		return
	}

	f, err := h.service.OpenFile(r.Context(), disk, relativePath)
	if err != nil {
		HandleError(w, err, SubjectFile)
		return
	}
	defer func() { _ = f.Content.Close() }()

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.WriteHeader(http.StatusOK)

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(w, f.Content, buf); err != nil {
		slog.Warn("file transfer interrupted", "disk", disk, "path", relativePath, "err", err)
	}
}

func (h *Handler) handleNewDisk(w http.ResponseWriter, r *http.Request) {
	disk, err := urlParam(r, "diskName")
	if err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxNewDiskBody+1))
	if err != nil {
		HandleError(w, fmt.Errorf("new disk: %w: %w", vdisk.ErrInvalidInput, err), SubjectDirectory)
		return
	}
	if len(body) > maxNewDiskBody {
		HandleError(w, fmt.Errorf("new disk: %w: %w", vdisk.ErrInvalidInput, ErrBodyTooLarge), SubjectDirectory)
		return
	}

	top := strings.TrimRight(string(body), "\r\n")
	slog.Info("new disk", "disk", disk, "top", top)

	if err := h.service.RegisterDisk(r.Context(), disk, top); err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDiskList(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, h.service.ListDisks(r.Context()))
}

func (h *Handler) handlePause(w http.ResponseWriter, _ *http.Request) {
	h.service.Pause()
	WriteText(w, http.StatusOK, pausedBody)
}

func (h *Handler) handleResume(w http.ResponseWriter, _ *http.Request) {
	h.service.Resume()
	WriteText(w, http.StatusOK, resumedBody)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	disk, err := urlParam(r, "diskName")
	if err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}

	stats, err := h.service.DownloadStats(r.Context(), disk)
	if err != nil {
		HandleError(w, err, SubjectDirectory)
		return
	}

	_ = WriteJSON(w, http.StatusOK, stats)
}

// urlParam returns a decoded route parameter. chi matches on the raw path
// when the request carried escapes that Go could not re-create, in which
// case the parameter is still percent-encoded.
func urlParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}

	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("url param %s: %w: %w", key, vdisk.ErrInvalidInput, err)
	}
	return decoded, nil
}

// absoluteRequestURI rebuilds the URI the client asked for, query included.
func absoluteRequestURI(r *http.Request) string {
	if strings.HasPrefix(r.RequestURI, "http://") || strings.HasPrefix(r.RequestURI, "https://") {
		return r.RequestURI
	}

	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}

	requestURI := r.RequestURI
	if requestURI == "" {
		requestURI = r.URL.RequestURI()
	}

	return scheme + "://" + r.Host + requestURI
}
