package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [disk]",
	Aliases: []string{"ls"},
	Short:   "List the files of a disk",
	Long: `List the download URL of every file on a disk.

Without a disk name the server's default disk is listed.

Examples:
  vdisk-cli list
  vdisk-cli list Vacation
  vdisk-cli list Vacation -q | xargs -n1 curl -O`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	disk := ""
	if len(args) > 0 {
		disk = args[0]
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	listing, err := client.ListFiles(cmd.Context(), disk)
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatListing(w, listing)
	})
}
