/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/api"
	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/storage"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <code> [code...]",
	Short: "Decode observed codewords",
	Long: `Identify one or more observed codewords. Codes accept hex (0x),
binary (0b), octal (0o) or decimal notation.

Examples:
  tagdecode decode 0x1b2c3d4
  tagdecode decode --family sample25h7 --max-hamming 3 0b1010 0b0110
  tagdecode decode --record --format json 0x1b2c3d4`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("family")
		record, _ := cmd.Flags().GetBool("record")
		format, _ := cmd.Flags().GetString("format")

		observed := make([]uint64, 0, len(args))
		for _, arg := range args {
			c, err := family.ParseCode(arg)
			if err != nil {
				return err
			}
			observed = append(observed, c)
		}

		f, err := prepareFamily(cmd, e, name)
		if err != nil {
			return err
		}
		defer f.Close()

		var history api.DetectionHistory
		if record {
			store, err := openHistory(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			history = store
		}

		results, err := decodeCodes(f, observed, history, "cli", e.logger)
		if err != nil {
			return err
		}
		return outputResults(cmd.OutOrStdout(), format, results)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	addDecodeFlags(decodeCmd)
}

func addDecodeFlags(c *cobra.Command) {
	c.Flags().StringP("family", "f", "", "Family to decode against (default: detect.family or the only family)")
	c.Flags().Int("max-hamming", -1, "Bit errors to correct, at most 3 (default: max_hamming from config)")
	c.Flags().Bool("record", false, "Store results in the detection history")
	c.Flags().String("format", "table", "Output format: table or json")
}

// prepareFamily loads the selected family and builds its decode table.
func prepareFamily(cmd *cobra.Command, e *env, name string) (*family.Family, error) {
	maxHamming, _ := cmd.Flags().GetInt("max-hamming")
	if maxHamming < 0 {
		maxHamming = e.cfg.MaxHamming
	}

	reg, err := loadRegistry(e.cfg)
	if err != nil {
		return nil, err
	}
	f, err := selectFamily(reg, name, e.cfg.Detect.Family)
	if err != nil {
		return nil, err
	}

	if err := f.Init(maxHamming, family.WithLogger(e.logger)); err != nil {
		return nil, err
	}
	e.logger.Debug("decode table ready",
		"family", f.Name,
		"max_hamming", maxHamming,
		"build_time", f.BuildTime(),
	)
	return f, nil
}

func decodeCodes(f *family.Family, observed []uint64, history api.DetectionHistory, source string, logger *slog.Logger) ([]decodeResult, error) {
	results := make([]decodeResult, 0, len(observed))
	for _, c := range observed {
		entry, err := f.Decode(c)
		if err != nil {
			return nil, err
		}
		r := newDecodeResult(f, c, entry)

		if history != nil {
			id, err := history.Create(&storage.Detection{
				Family:   f.Name,
				Observed: c,
				Entry:    entry,
				Source:   source,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to record detection: %w", err)
			}
			r.DetectionID = id.String()
		}

		logger.Debug("decoded codeword",
			"family", f.Name,
			"observed", r.Observed,
			"found", r.Found,
			"id", entry.ID,
			"hamming", entry.Hamming,
			"rotation", entry.Rotation,
		)
		results = append(results, r)
	}
	return results, nil
}
