/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recorded detections",
	Long: `List recorded detections newest first, or show a single detection by ID.

Examples:
  tagdecode history
  tagdecode history --limit 5 --format json
  tagdecode history --family sample25h7
  tagdecode history 0ujtsYcgvSTl8PAuAdqWYSMnLOv
  tagdecode history --delete 0ujtsYcgvSTl8PAuAdqWYSMnLOv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")
		del, _ := cmd.Flags().GetBool("delete")
		familyName, _ := cmd.Flags().GetString("family")

		store, err := openHistory(e.cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			if del {
				return fmt.Errorf("--delete requires a detection ID")
			}
			var detections []*storage.Detection
			if familyName != "" {
				detections, err = store.ListByFamily(familyName, limit)
			} else {
				detections, err = store.List(limit)
			}
			if err != nil {
				return err
			}
			return outputDetections(cmd.OutOrStdout(), format, detections)
		}

		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid detection ID %q: %w", args[0], err)
		}

		if del {
			if err := store.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted detection %s\n", id)
			return nil
		}

		d, err := store.Read(id)
		if err != nil {
			return err
		}
		return outputDetections(cmd.OutOrStdout(), format, []*storage.Detection{d})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of detections to list")
	historyCmd.Flags().String("format", "table", "Output format: table or json")
	historyCmd.Flags().Bool("delete", false, "Delete the detection with the given ID")
	historyCmd.Flags().StringP("family", "f", "", "Only list detections of this family")
}
