package clientcli

import "github.com/sagarc03/vdisk"

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	// Target is either an absolute file URL, as returned in a listing, or disk/path.
	Target    string
	LocalPath string // empty = derive from remote, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	URL         string `json:"url"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
	Err         error  `json:"-"` // nil on success
}

// MirrorOptions configures downloading every file of a disk.
type MirrorOptions struct {
	Disk    string
	DestDir string
}

// RegisterResult is the outcome of registering a disk.
type RegisterResult struct {
	Disk string `json:"disk"`
	Path string `json:"path"`
}

// StateResult is the body returned by pause and resume.
type StateResult struct {
	State string `json:"state"`
}

// Listing, DiskList and DownloadStats are the server documents, shared with the server package.
type (
	Listing       = vdisk.Listing
	DiskList      = vdisk.DiskList
	DownloadStats = vdisk.DownloadStats
)
