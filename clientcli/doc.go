// Package clientcli provides a client library for vdisk servers.
//
// It lists disks and files, downloads single files or whole disks, registers
// new disks and toggles the download gate. The package includes profile-based
// configuration for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client and list a disk:
//
//	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:8090"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	listing, err := client.ListFiles(ctx, "Vacation")
//
// Download a file by disk and path, or by a URL taken from a listing:
//
//	result, _, err := client.Download(ctx, clientcli.DownloadOptions{
//		Target:    "Vacation/beach/sunset.jpg",
//		LocalPath: "./sunset.jpg",
//	})
//
// Errors returned by the server are *APIError values and match the sentinels:
//
//	if errors.Is(err, clientcli.ErrUnavailable) {
//		// downloads are paused
//	}
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatListing(os.Stdout, listing)
package clientcli
