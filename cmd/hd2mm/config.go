package main

import (
	"fmt"
	"strings"

	"hd2mm/internal/core"
	"hd2mm/internal/domain"
	"hd2mm/internal/storage/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting in config.yaml",
	Long: `Change a setting in config.yaml.

Keys: game_path, storage_path, temp_path, link_method, nexus_api_key

Examples:
  hd2mm config set game_path "~/.steam/steam/steamapps/common/Helldivers 2"
  hd2mm config set link_method symlink`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, dir, err := loadSettings()
	if err != nil {
		return err
	}

	key := "(not set)"
	if cfg.NexusAPIKey != "" {
		key = "(set)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config_dir:     %s\n", dir)
	fmt.Fprintf(out, "game_path:      %s\n", cfg.GamePath)
	fmt.Fprintf(out, "storage_path:   %s\n", cfg.StoragePath)
	fmt.Fprintf(out, "temp_path:      %s\n", cfg.TempPath)
	fmt.Fprintf(out, "link_method:    %s\n", cfg.LinkMethod)
	fmt.Fprintf(out, "nexus_api_key:  %s\n", key)
	fmt.Fprintf(out, "active_profile: %s\n", cfg.ActiveProfile)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	key, value := strings.ToLower(args[0]), args[1]
	switch key {
	case "game_path":
		path, err := config.ExpandPath(value)
		if err != nil {
			return err
		}
		root, err := core.ValidateGamePath(path)
		if err != nil {
			return err
		}
		cfg.GamePath = root
	case "storage_path":
		if cfg.StoragePath, err = config.ExpandPath(value); err != nil {
			return err
		}
	case "temp_path":
		if cfg.TempPath, err = config.ExpandPath(value); err != nil {
			return err
		}
	case "link_method":
		if cfg.LinkMethod, err = domain.ParseLinkMethod(value); err != nil {
			return err
		}
	case "nexus_api_key":
		cfg.NexusAPIKey = value
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}

	if err := cfg.Save(dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s updated\n", colorGreen("✓"), key)
	return nil
}
