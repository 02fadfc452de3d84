/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/config"
	"github.com/ssargent/tagdecode/pkg/family"
)

// Sample family written by init: 5x5 data bits, which matches the default
// detect layout of 9 cells with a 2 cell border.
var sampleFamily = family.GenerateConfig{
	Name:       "sample25h7",
	Bits:       5,
	MinHamming: 7,
	Count:      32,
	Seed:       1,
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration and a sample family file",
	Long: `Create a configuration file with a generated API key, and a family
definitions file holding a generated sample family.

Examples:
  tagdecode init
  tagdecode init --config ./tagdecode.yaml --data-dir ./data
  tagdecode init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		_, err = runInit(cmd.OutOrStdout(), e.configPath, dataDir, force)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringP("data-dir", "d", "./data", "Data directory for detection history")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}

func runInit(out io.Writer, configPath, dataDir string, force bool) (*config.Config, error) {
	if config.ConfigExists(configPath) && !force {
		fmt.Fprintf(out, "Configuration already exists at %s. Use --force to overwrite.\n", configPath)
		return config.LoadConfig(configPath)
	}

	cfg, err := config.BootstrapConfig(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if !config.ConfigExists(cfg.FamiliesFile) || force {
		fam, err := family.Generate(sampleFamily)
		if err != nil {
			return nil, err
		}
		if err := family.SaveFile(cfg.FamiliesFile, []*family.Family{fam}); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Sample family %s with %d codes written to %s\n", fam.Name, len(fam.Codes), cfg.FamiliesFile)
	}

	cfg.Detect.Family = sampleFamily.Name
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Configuration created at %s\n", configPath)
	fmt.Fprintf(out, "API key: %s\n", cfg.Server.APIKey)
	return cfg, nil
}
