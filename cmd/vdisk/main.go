package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "vdisk",
	Short:   "Serve directories as virtual disks over HTTP",
	Long: `vdisk exposes named directories ("virtual disks") over HTTP.
Clients list every file on a disk as download URLs and fetch files
through those URLs. Downloads can be paused and resumed at runtime.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeat to merge (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("stats-type", "", "download statistics backend: none, sqlite, postgres, redis (env: VDISK_STATS_TYPE)")
	rootCmd.PersistentFlags().String("stats-dsn", "", "download statistics connection string (env: VDISK_STATS_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: VDISK_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
