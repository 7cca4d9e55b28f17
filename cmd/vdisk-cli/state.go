package main

import (
	"context"
	"io"
	"os"

	"github.com/sagarc03/vdisk/clientcli"
	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Stop the server from serving downloads",
	Long: `Pause file downloads on the server.

Listings keep working; file requests get 503 until resume is called.
Transfers already in progress are not interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runState(cmd, (*clientcli.Client).Pause)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Let the server serve downloads again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runState(cmd, (*clientcli.Client).Resume)
	},
}

func runState(cmd *cobra.Command, op func(*clientcli.Client, context.Context) (*clientcli.StateResult, error)) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := op(client, cmd.Context())
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatState(w, result)
	})
}
