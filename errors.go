package vdisk

import "errors"

var (
	// ErrInvalidInput is returned when a required parameter is empty or malformed
	ErrInvalidInput = errors.New("invalid input")
	// ErrDiskNotFound is returned when no disk is registered under a name
	ErrDiskNotFound = errors.New("disk not found")
	// ErrNotFound is returned when a file or directory does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotADirectory is returned when a disk top is not a directory
	ErrNotADirectory = errors.New("not a directory")
	// ErrNotAFile is returned when a requested path is not a regular file
	ErrNotAFile = errors.New("not a regular file")
	// ErrNotReadable is returned when a path cannot be opened for reading
	ErrNotReadable = errors.New("not readable")
	// ErrIO is returned for any other I/O failure during a walk or read
	ErrIO = errors.New("i/o failure")
	// ErrUnavailable is returned when downloads are paused
	ErrUnavailable = errors.New("service unavailable")
	// ErrStatsDisabled is returned when no download counter is configured
	ErrStatsDisabled = errors.New("download statistics disabled")
)
