package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turbot/flowpipe-form/internal/cache"
	"github.com/turbot/flowpipe-form/internal/config"
	"github.com/turbot/flowpipe-form/internal/constants"
	"github.com/turbot/flowpipe-form/internal/util"
)

// RunCLI executes the root command.
func RunCLI(ctx context.Context) {
	rootCmd, err := RootCommand(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// Build the cobra command that handles our command line tool.
func RootCommand(ctx context.Context) (*cobra.Command, error) {

	rootCmd := &cobra.Command{
		Use:     constants.Name,
		Short:   constants.ShortDescription,
		Long:    constants.LongDescription,
		Version: viper.GetString("main.version"),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initGlobalConfig(cmd)
		},
	}
	rootCmd.SetVersionTemplate("Flowpipe form v{{.Version}}\n")

	rootCmd.PersistentFlags().String(constants.ArgInstallDir, defaultInstallDir(), "Path to the config directory")
	rootCmd.PersistentFlags().String(constants.ArgApiBaseUrl, "http://localhost:7103", "Base URL of the Flowpipe server")

	// disable auto completion generation, since we don't want to support
	// powershell yet - and there's no way to disable powershell in the default generator
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serverCmd())

	return rootCmd, nil
}

// initGlobalConfig sets up the global viper config with default values from
// config files and ENV variables, ensures the install dir and stashes the
// process salt in the cache.
func initGlobalConfig(cmd *cobra.Command) error {
	installDir, err := cmd.Flags().GetString(constants.ArgInstallDir)
	if err != nil {
		return err
	}

	config.SetDefaults(installDir)

	if err := viper.BindPFlag("api.base_url", cmd.Flags().Lookup(constants.ArgApiBaseUrl)); err != nil {
		return err
	}

	internalDir := filepath.Join(installDir, "internal")
	if err := ensureDir(internalDir); err != nil {
		return err
	}

	salt, err := util.CreateSalt(filepath.Join(internalDir, "salt"), 32)
	if err != nil {
		return err
	}
	cache.GetCache().SetWithTTL(constants.SaltCacheKey, salt, 24*7*52*99*time.Hour)

	return nil
}

func defaultInstallDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowpipe-form"
	}
	return filepath.Join(home, ".flowpipe-form")
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
