package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/borderless/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate the configuration file",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
			res, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configExplainCmd = &cobra.Command{
	Use:   "explain <key>",
	Short: "Show a config value and where it was set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		value, src, err := explainKey(res, args[0])
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "key: %s\n", args[0])
		fmt.Fprintf(w, "source: %s\n", formatSource(src))
		fmt.Fprintf(w, "value: %s", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configPrintCmd, configPathCmd, configInitCmd, configExplainCmd)
	configPrintCmd.Flags().Bool("defaults", false, "Print built-in defaults instead of the loaded file")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

// explainKey looks up a top-level key of the effective config.
func explainKey(res *config.LoadResult, key string) (any, config.Source, error) {
	data, err := yaml.Marshal(res.Config)
	if err != nil {
		return nil, config.Source{}, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, config.Source{}, err
	}

	value, ok := values[key]
	if !ok {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, config.Source{}, fmt.Errorf("unknown config key %q (known: %v)", key, keys)
	}

	src, ok := res.Sources[key]
	if !ok {
		src = config.Source{Kind: config.SourceDefault}
	}
	return value, src, nil
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
