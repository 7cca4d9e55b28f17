package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <disk> <server-dir>",
	Short: "Expose a server directory as a disk",
	Long: `Register a directory on the server host as a named disk.

The directory must exist on the server and be readable by it. Registering an
existing disk name replaces its directory.

Examples:
  vdisk-cli register Vacation /srv/photos/2024-vacation`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.RegisterDisk(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatRegister(w, result)
	})
}
