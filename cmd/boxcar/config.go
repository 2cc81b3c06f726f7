// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"boxcar-cli/internal/config"
	"boxcar-cli/internal/issue"
)

// configCmd is the `boxcar config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage boxcar configuration",
	Long: `Manage boxcar configuration.

Configuration is stored in:
  - Linux: ~/.config/boxcar/config.cue
  - macOS: ~/Library/Application Support/boxcar/config.cue
  - Windows: %APPDATA%\boxcar\config.cue

Every setting can also be overridden through BOXCAR_* environment
variables (e.g. BOXCAR_REPOSITORY, BOXCAR_CONTAINER_ENGINE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := TaskStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	// The provider does not report which file it read, so derive the path the
	// same way the loader does.
	cfgPath := cfgFile
	if cfgPath == "" {
		if cfgDir, dirErr := config.ConfigDir(); dirErr == nil {
			cfgPath = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		}
	}
	if cfgPath != "" && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(cfg.ContainerEngine.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("repository"), valueStyle.Render(cfg.Repository.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("read_remote_cache"), valueStyle.Render(fmt.Sprintf("%v", cfg.ReadRemoteCache)))
	fmt.Printf("%s: %s\n", keyStyle.Render("write_remote_cache"), valueStyle.Render(fmt.Sprintf("%v", cfg.WriteRemoteCache)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", successIcon,
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
