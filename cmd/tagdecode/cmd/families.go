/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/family"
)

// familiesCmd represents the families command
var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the configured marker families",
	Long: `List the families in the configured definitions file. With --stats the
decode table of every family is built and its slot usage reported.

Examples:
  tagdecode families
  tagdecode families --stats --max-hamming 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		withStats, _ := cmd.Flags().GetBool("stats")
		maxHamming, _ := cmd.Flags().GetInt("max-hamming")
		if maxHamming < 0 {
			maxHamming = e.cfg.MaxHamming
		}

		reg, err := loadRegistry(e.cfg)
		if err != nil {
			return err
		}
		defer reg.Close()

		if withStats {
			if err := reg.InitAll(cmd.Context(), maxHamming, family.WithLogger(e.logger)); err != nil {
				return err
			}
		}
		return outputFamilies(cmd.OutOrStdout(), reg.Families(), withStats)
	},
}

func init() {
	rootCmd.AddCommand(familiesCmd)

	familiesCmd.Flags().Bool("stats", false, "Build decode tables and report their statistics")
	familiesCmd.Flags().Int("max-hamming", -1, "Bit errors to correct when building tables (default: max_hamming from config)")
}
