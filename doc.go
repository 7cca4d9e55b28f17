// Package vdisk serves named directory trees ("virtual disks") for listing and
// download.
//
// A disk maps a name to a top directory on the server. Clients list every file
// of a disk as a set of download URLs and fetch individual files by their
// relative path. Paths are resolved strictly inside the disk's top directory.
//
// # Key Components
//
//   - Service: Facade combining the registry, the download gate, file storage and the optional download counter
//   - Registry: Disk name to top directory mapping, including discovery of DefaultDisk
//   - Gate: Pause/resume switch for downloads
//   - FileStorage: Interface for filesystem checks, opens and walks (see the filesystem package)
//   - DownloadCounter: Interface for per-file download statistics (see the database package)
//
// # URLs
//
// File URLs are built from the list request URI by ToFileURIPrefix and
// EncodePath. EncodePath leaves '/' untouched and escapes control bytes,
// non-ASCII bytes and " +%$&,:;=?@<>#":
//
//	http://host/FileAccessService/api/fileAccessor/fileList/Vacation
//	http://host/FileAccessService/api/fileAccessor/file/Vacation/beach%20day/1.jpg
//
// # Example Usage
//
//	svc, err := vdisk.NewService(filesystem.NewOsFileStorage(), vdisk.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := svc.RegisterDisk(ctx, "Vacation", "/srv/photos/vacation"); err != nil {
//	    log.Fatal(err)
//	}
//
//	listing, err := svc.ListFiles(ctx, "Vacation", prefix)
//
// See the http package for the REST API.
package vdisk
