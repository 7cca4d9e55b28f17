// Package config provides configuration loading and validation for vdisk.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (VDISK_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with VDISK_ prefix:
//   - server.port → VDISK_SERVER_PORT
//   - stats.type → VDISK_STATS_TYPE
//   - stats.tables.downloads → VDISK_STATS_TABLES_DOWNLOADS
//
// # Disks
//
// Disks are listed under "disks" as name/path pairs and can be added on the
// command line with a repeatable --disk name=dir flag.
//
//	disks:
//	  - name: Vid
//	    path: /media/videos
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Base and index paths must start with /
//   - Stats type must be none, sqlite, postgres, or redis; a DSN is required unless none
//   - Log level must be debug, info, warn, or error
package config
