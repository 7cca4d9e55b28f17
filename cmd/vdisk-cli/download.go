package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sagarc03/vdisk/clientcli"
	"github.com/spf13/cobra"
)

var (
	downloadOutput string
	downloadStdout bool
	downloadAll    bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <url|disk/path> [local-path]",
	Short: "Download a file or a whole disk",
	Long: `Download a file from the server.

The file is named either by a URL taken from a listing or by disk/path.
With --all the argument is a disk name and every file of the disk is
downloaded into local-path (default: a directory named after the disk).

Downloads fail with 503 while the server is paused.

Examples:
  vdisk-cli download Vacation/beach/sunset.jpg
  vdisk-cli download Vacation/beach/sunset.jpg ./sunset.jpg
  vdisk-cli download --stdout Vacation/notes.txt | less
  vdisk-cli download --all Vacation ./vacation`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
	downloadCmd.Flags().BoolVarP(&downloadAll, "all", "a", false, "download every file of a disk")
}

func runDownload(cmd *cobra.Command, args []string) error {
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	if downloadAll {
		if downloadStdout {
			return errors.New("--stdout cannot be combined with --all")
		}
		return downloadDisk(cmd, client, args[0], localPath)
	}

	if downloadStdout {
		localPath = "-"
	}

	result, reader, err := client.Download(cmd.Context(), clientcli.DownloadOptions{
		Target:    args[0],
		LocalPath: localPath,
	})
	if err != nil {
		return err
	}

	// If stdout, write content to stdout
	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		// Don't print metadata when writing to stdout (unless JSON mode)
		if jsonOutput {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatDownload(w, result)
	})
}

func downloadDisk(cmd *cobra.Command, client *clientcli.Client, disk, destDir string) error {
	if destDir == "" {
		destDir = disk
	}

	results, err := client.DownloadDisk(cmd.Context(), clientcli.MirrorOptions{
		Disk:    disk,
		DestDir: destDir,
	})
	if err != nil && results == nil {
		return err
	}

	if outErr := writeOutput(os.Stdout, func(w io.Writer) error {
		return getFormatter().FormatDownloads(w, results)
	}); outErr != nil {
		return outErr
	}

	if err != nil {
		return err
	}
	if clientcli.HasDownloadErrors(results) {
		return fmt.Errorf("download disk %s: some files failed", disk)
	}
	return nil
}
