package clientcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/vdisk"
)

// DefaultTimeout is the default HTTP client timeout.
// File transfers are not bounded by it; see Download.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 64 << 10

// Client performs operations against a vdisk server.
type Client struct {
	config     *Config
	httpClient *http.Client
	// transfers is used for file bodies, which may take arbitrarily long.
	transfers *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
		c.transfers = client
	}
}

// WithTimeout sets the HTTP client timeout for metadata requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	c := &Client{
		config:     cfg.WithDefaults(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		transfers:  &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the resolved server endpoint.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// ListDisks returns the names of the registered disks.
func (c *Client) ListDisks(ctx context.Context) (*DiskList, error) {
	var list DiskList
	if err := c.getJSON(ctx, c.apiURL("diskList"), &list); err != nil {
		return nil, fmt.Errorf("list disks: %w", err)
	}
	if list.Disks == nil {
		list.Disks = []string{}
	}
	return &list, nil
}

// ListFiles returns the download URLs of every file of a disk.
// An empty disk name lists the default disk.
func (c *Client) ListFiles(ctx context.Context, disk string) (*Listing, error) {
	endpoint := c.apiURL("fileList")
	if disk != "" {
		endpoint = c.apiURL("fileList", url.PathEscape(disk))
	}

	var listing Listing
	if err := c.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if listing.URLs == nil {
		listing.URLs = []string{}
	}
	return &listing, nil
}

// FileURL returns the download URL of path on disk.
func (c *Client) FileURL(disk, filePath string) string {
	return c.apiURL("file", url.PathEscape(disk), vdisk.EncodePath(strings.TrimPrefix(filePath, "/")))
}

// Download downloads a single file from the server.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	fileURL, name, err := c.resolveTarget(opts.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.transfers.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, nil, readServerError(resp)
	}

	result := &DownloadResult{
		URL:         fileURL,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = path.Base(name)
	}
	result.LocalPath = localPath

	written, err := writeFile(localPath, resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, nil, err
	}

	result.Size = written
	return result, nil, nil
}

// DownloadDisk downloads every file of a disk into opts.DestDir, keeping the
// disk's directory layout. Continues on error, collecting results for all files.
func (c *Client) DownloadDisk(ctx context.Context, opts MirrorOptions) ([]DownloadResult, error) {
	if opts.DestDir == "" {
		return nil, fmt.Errorf("download disk: %w", ErrEmptyPath)
	}

	listing, err := c.ListFiles(ctx, opts.Disk)
	if err != nil {
		return nil, fmt.Errorf("download disk: %w", err)
	}

	dest, err := filepath.Abs(opts.DestDir)
	if err != nil {
		return nil, fmt.Errorf("download disk: %w", err)
	}

	results := make([]DownloadResult, 0, len(listing.URLs))
	for _, fileURL := range listing.URLs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}

		rel, relErr := relativeFilePath(fileURL, listing.Disk)
		if relErr != nil {
			results = append(results, DownloadResult{URL: fileURL, Err: relErr})
			continue
		}

		localPath := filepath.Join(dest, filepath.FromSlash(rel))
		if !vdisk.IsWithin(dest, localPath) {
			results = append(results, DownloadResult{
				URL: fileURL,
				Err: fmt.Errorf("%w: %s escapes %s", ErrInvalidFile, rel, dest),
			})
			continue
		}

		result, _, dlErr := c.Download(ctx, DownloadOptions{Target: fileURL, LocalPath: localPath})
		if dlErr != nil {
			results = append(results, DownloadResult{URL: fileURL, LocalPath: localPath, Err: dlErr})
			continue
		}
		results = append(results, *result)
	}

	return results, nil
}

// HasDownloadErrors returns true if any download result has an error.
func HasDownloadErrors(results []DownloadResult) bool {
	for i := range results {
		if results[i].Err != nil {
			return true
		}
	}
	return false
}

// RegisterDisk asks the server to expose dir, a path on the server host, as disk name.
func (c *Client) RegisterDisk(ctx context.Context, name, dir string) (*RegisterResult, error) {
	if name == "" {
		return nil, fmt.Errorf("register disk: %w", ErrEmptyDisk)
	}
	if dir == "" {
		return nil, fmt.Errorf("register disk: %w", ErrEmptyPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("newDisk", url.PathEscape(name)), strings.NewReader(dir))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := c.do(req); err != nil {
		return nil, fmt.Errorf("register disk %s: %w", name, err)
	}

	return &RegisterResult{Disk: name, Path: dir}, nil
}

// Pause stops the server from serving file downloads.
func (c *Client) Pause(ctx context.Context) (*StateResult, error) {
	return c.setState(ctx, "pause")
}

// Resume lets the server serve file downloads again.
func (c *Client) Resume(ctx context.Context) (*StateResult, error) {
	return c.setState(ctx, "resume")
}

func (c *Client) setState(ctx context.Context, op string) (*StateResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(op), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &StateResult{State: strings.TrimSpace(string(body))}, nil
}

// Stats returns the download counters of a disk.
// Returns ErrNotFound when the server runs without statistics.
func (c *Client) Stats(ctx context.Context, disk string) (*DownloadStats, error) {
	if disk == "" {
		return nil, fmt.Errorf("stats: %w", ErrEmptyDisk)
	}

	var stats DownloadStats
	if err := c.getJSON(ctx, c.apiURL("stats", url.PathEscape(disk)), &stats); err != nil {
		return nil, fmt.Errorf("stats %s: %w", disk, err)
	}
	if stats.Files == nil {
		stats.Files = []vdisk.DownloadCount{}
	}
	return &stats, nil
}

// resolveTarget turns a download target into a URL and the slash path used
// to name the local file.
func (c *Client) resolveTarget(target string) (string, string, error) {
	if target == "" {
		return "", "", ErrEmptyPath
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		name, err := vdisk.DecodeURI(u.EscapedPath())
		if err != nil {
			return "", "", err
		}
		return target, name, nil
	}

	disk, filePath, ok := strings.Cut(strings.TrimPrefix(target, "/"), "/")
	if !ok || disk == "" || filePath == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidFile, target)
	}

	return c.FileURL(disk, filePath), filePath, nil
}

func (c *Client) apiURL(segments ...string) string {
	return c.config.Endpoint + c.config.BasePath + "/" + strings.Join(segments, "/")
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, readServerError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// relativeFilePath extracts the path of a file inside its disk from a listing URL.
func relativeFilePath(fileURL, disk string) (string, error) {
	marker := "/file/" + disk + "/"
	i := strings.LastIndex(fileURL, marker)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidFile, fileURL)
	}

	rel, err := vdisk.DecodeURI(fileURL[i+len(marker):])
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidFile, fileURL)
	}
	return rel, nil
}

func writeFile(localPath string, r io.Reader) (int64, error) {
	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("create directory: %w", err)
		}
	}

	file, err := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(file, r)
	if err != nil {
		_ = file.Close()
		return 0, fmt.Errorf("write file: %w", err)
	}

	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close file: %w", err)
	}

	return written, nil
}

func readServerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return parseServerError(resp.StatusCode, body)
}

// parseServerError extracts the error envelope from a server response.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Code = envelope.Error
		apiErr.Message = envelope.Message
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Code       string // machine-readable code from the error envelope, if any
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned for malformed requests (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrForbidden is returned when the server cannot read the directory or file (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}

	// ErrNotFound is returned when the disk, file or operation does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrNotAcceptable is returned when a path has the wrong kind, such as a file
	// given where a directory is expected (406).
	ErrNotAcceptable = &APIError{StatusCode: http.StatusNotAcceptable}

	// ErrUnavailable is returned while downloads are paused (503).
	ErrUnavailable = &APIError{StatusCode: http.StatusServiceUnavailable}
)
