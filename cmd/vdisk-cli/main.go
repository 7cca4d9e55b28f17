package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sagarc03/vdisk/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	server      string
	basePath    string
	timeout     time.Duration
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "vdisk-cli",
	Version: version,
	Short:   "Client for vdisk servers",
	Long: `vdisk CLI - Client for vdisk virtual disk servers

Lists the disks and files a server exposes, downloads single files or whole
disks, registers new disks and pauses or resumes downloads.

Connection settings are resolved from, in increasing precedence:
  - the selected profile (configure add), from ~/.vdisk/config.yaml
  - VDISK_ENDPOINT and VDISK_BASE_PATH
  - --server and --base-path`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.vdisk/config.yaml, env: VDISK_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile to use (env: VDISK_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:8090, env: VDISK_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "", "API base path (default: "+clientcli.DefaultBasePath+", env: VDISK_BASE_PATH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", clientcli.DefaultTimeout, "timeout for non-download requests")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(disksCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// getConfigPath returns the config file path from flag, env or the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load the selected profile
	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}
	explicit := name != "" || cfgFile != "" || clientcli.ConfigPathFromEnv() != ""

	if configPath := getConfigPath(); configPath != "" {
		fileCfg, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, profileErr := fileCfg.GetProfile(name)
			if profileErr == nil {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			} else if name != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles) {
				return nil, profileErr
			}
		case explicit:
			// Only error if the user asked for a config file or profile
			return nil, err
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint: server,
		BasePath: basePath,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg, clientcli.WithTimeout(timeout))
}

func writeOutput(w io.Writer, format func(io.Writer) error) error {
	if err := format(w); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
