package main

import (
	"errors"
	"io"
	"os"

	"github.com/sagarc03/vdisk/clientcli"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <disk>",
	Short: "Show download counters of a disk",
	Long: `Show how often each file of a disk has been downloaded.

The server must be started with a stats backend (sqlite, postgres or redis).

Examples:
  vdisk-cli stats Vacation
  vdisk-cli stats Vacation --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	stats, err := client.Stats(cmd.Context(), args[0])
	if err != nil {
		var apiErr *clientcli.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "stats_disabled" {
			return errors.New("the server does not record download statistics")
		}
		return err
	}

	return writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatStats(w, stats)
	})
}
