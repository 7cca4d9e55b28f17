package vdisk

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DefaultDiskName is the reserved disk discovered from the working or home directory.
const DefaultDiskName = "DefaultDisk"

// Disk is a named top directory exposed for listing and download.
type Disk struct {
	Name string `json:"name" mapstructure:"name" validate:"required"`
	Top  string `json:"path" mapstructure:"path" validate:"required"`
}

// Listing is the JSON document returned for a file list request.
type Listing struct {
	Disk string   `json:"disk"`
	URLs []string `json:"urls"`
}

// DiskList is the JSON document returned for a disk list request.
type DiskList struct {
	Disks []string `json:"disks"`
}

// DownloadCount is the number of times one file of a disk has been served.
type DownloadCount struct {
	Path             string    `json:"path"`
	Count            int64     `json:"count"`
	LastDownloadedAt time.Time `json:"last_downloaded_at"`
}

// DownloadStats is the JSON document returned for a stats request.
type DownloadStats struct {
	Disk  string          `json:"disk"`
	Files []DownloadCount `json:"files"`
}

// Tables holds configurable table names for the download counter.
type Tables struct {
	Downloads string `mapstructure:"downloads"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Downloads == "" {
		return errors.New("validate tables: downloads table name cannot be empty")
	}

	if !IsValidTableName(t.Downloads) {
		return fmt.Errorf("validate tables: invalid downloads table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Downloads)
	}

	return nil
}
