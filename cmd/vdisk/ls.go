package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/config"
)

var lsCmd = &cobra.Command{
	Use:   "ls [disk]",
	Short: "List the download URLs of a disk without starting the server",
	Long: `List every file of a disk as the URLs a running server would return.

Without a disk name the default disk is listed.

Examples:
  vdisk ls -d Vid=/media/videos Vid
  vdisk ls --base-url https://media.example.com Vid --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().StringArrayP("disk", "d", nil, "disk to register as name=dir, repeatable")
	lsCmd.Flags().String("base-url", "http://localhost:8090", "scheme and host the URLs point at")
	lsCmd.Flags().Bool("json", false, "print the listing document as JSON")

	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	disk := vdisk.DefaultDiskName
	if len(args) == 1 {
		disk = args[0]
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()

	service, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	requestURI := strings.TrimRight(baseURL, "/") + cfg.Server.BasePath + "/fileList/" + url.PathEscape(disk)

	prefix, err := vdisk.ToFileURIPrefix(requestURI, disk)
	if err != nil {
		return fmt.Errorf("ls: %w", err)
	}

	listing, err := service.ListFiles(ctx, disk, prefix)
	if err != nil {
		return fmt.Errorf("ls: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(listing)
	}

	for _, u := range listing.URLs {
		fmt.Println(u)
	}
	return nil
}
