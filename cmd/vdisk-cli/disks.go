package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var disksCmd = &cobra.Command{
	Use:   "disks",
	Short: "List the disks registered on the server",
	Long: `List the disks registered on the server.

The default disk only appears once it has been used.

Examples:
  vdisk-cli disks
  vdisk-cli disks --json`,
	Args: cobra.NoArgs,
	RunE: runDisks,
}

func runDisks(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	list, err := client.ListDisks(cmd.Context())
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatDisks(w, list)
	})
}
