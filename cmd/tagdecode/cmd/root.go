/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/config"
	"github.com/ssargent/tagdecode/pkg/di"
	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/storage"
)

var container *di.Container

// SetContainer injects the dependency container used by every command.
func SetContainer(c *di.Container) {
	container = c
}

type envKey struct{}

// env is what the root command resolves before any subcommand runs.
type env struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagdecode",
	Short: "tagdecode - fiducial marker codeword decoder",
	Long: `tagdecode identifies observed fiducial marker codewords against known
families, correcting a bounded number of bit errors and any quarter-turn
rotation of the marker.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			cfg.FamiliesFile = resolvePath(configPath, cfg.FamiliesFile)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logger, err := cfg.Logging.NewLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{
			configPath: configPath,
			cfg:        cfg,
			logger:     logger,
		}))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

func envFrom(cmd *cobra.Command) (*env, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	e, ok := cmd.Context().Value(envKey{}).(*env)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return e, nil
}

// resolvePath interprets relative paths in a config file against the
// directory holding that file.
func resolvePath(configPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(configPath), path)
}

func historyPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "history")
}

func loadRegistry(cfg *config.Config) (*family.Registry, error) {
	reg, err := container.GetRegistryLoader()(cfg.FamiliesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load families (run 'tagdecode init' first): %w", err)
	}
	return reg, nil
}

func openHistory(cfg *config.Config) (*storage.DetectionStore, error) {
	store, err := container.GetHistoryOpener()(historyPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open detection history: %w", err)
	}
	return store, nil
}

// selectFamily picks the named family, the configured default, or the only
// registered one.
func selectFamily(reg *family.Registry, name, fallback string) (*family.Family, error) {
	if name == "" {
		name = fallback
	}
	if name != "" {
		return reg.Get(name)
	}
	if reg.Len() == 1 {
		return reg.Families()[0], nil
	}
	return nil, fmt.Errorf("--family is required, choose one of: %s", strings.Join(reg.Names(), ", "))
}
