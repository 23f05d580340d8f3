package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/ipc"
	"github.com/1broseidon/borderless/internal/output"
	"github.com/1broseidon/borderless/internal/runtimepath"
)

// version is set at build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "borderless",
	Short: "Borderless fullscreen for windowed applications",
	Long: "borderless strips the frame from application windows, stretches them over their monitor\n" +
		"and restores them to their exact windowed state on request. A daemon keeps match rules\n" +
		"applied as windows come and go.",
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml or json (default: yaml on a terminal, json when piped)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.config/borderless/config.yaml)")
	rootCmd.PersistentFlags().String("socket", "", "Daemon socket path (default: $"+runtimepath.SocketEnv+" or the runtime dir)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, err := configPath()
		if err != nil {
			return err
		}
		if err := loadEnvFile(path); err != nil {
			return err
		}

		level := slog.LevelInfo
		if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
			level = slog.LevelDebug
		}
		initLogger(level)
		return nil
	}
}

// envFileName sits next to the config file and holds environment overrides
// such as DISPLAY or BORDERLESS_SOCKET for sessions started without them.
const envFileName = "borderless.env"

// loadEnvFile applies the env file beside configPath. Variables already set
// in the environment win.
func loadEnvFile(configPath string) error {
	path := filepath.Join(filepath.Dir(configPath), envFileName)
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func debugEnabled() bool {
	debug, _ := rootCmd.PersistentFlags().GetBool("debug")
	return debug
}

// configPath returns --config or the default location.
func configPath() (string, error) {
	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.LoadResult, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(path)
}

// socketPath returns --socket or the runtime default.
func socketPath() (string, error) {
	if path, _ := rootCmd.PersistentFlags().GetString("socket"); path != "" {
		return path, nil
	}
	path, err := runtimepath.SocketPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return path, nil
}

func newClient() (*ipc.Client, error) {
	path, err := socketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClientWithPath(path), nil
}
