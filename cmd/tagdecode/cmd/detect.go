/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/tagdecode/pkg/api"
	"github.com/ssargent/tagdecode/pkg/config"
	"github.com/ssargent/tagdecode/pkg/grid"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect <image> [image...]",
	Short: "Sample cropped marker images and decode them",
	Long: `Read cropped, axis-aligned marker images (PNG or JPEG), sample their
cell grid and decode the packed codeword. The image width is split into
--cells windows; --border windows on each side are dropped.

Examples:
  tagdecode detect marker.png
  tagdecode detect --cells 9 --border 2 --threshold 10 --fill 0.8 marker.png
  tagdecode detect --show-cells --record marker.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("family")
		record, _ := cmd.Flags().GetBool("record")
		format, _ := cmd.Flags().GetString("format")
		showCells, _ := cmd.Flags().GetBool("show-cells")

		sampler := samplerFromFlags(cmd, e.cfg.Detect)

		f, err := prepareFamily(cmd, e, name)
		if err != nil {
			return err
		}
		defer f.Close()

		if int(f.Bits) != sampler.DataCells() {
			return fmt.Errorf("family %s has %dx%d data bits but the sampler reads %dx%d",
				f.Name, f.Bits, f.Bits, sampler.DataCells(), sampler.DataCells())
		}

		observed := make([]uint64, 0, len(args))
		for _, path := range args {
			v, cells, err := sampleImage(path, sampler)
			if err != nil {
				return err
			}
			if showCells {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", path)
				if err := cells.Print(cmd.OutOrStdout(), "%2d"); err != nil {
					return err
				}
			}
			e.logger.Debug("sampled image", "path", path, "value", fmt.Sprintf("%#x", v))
			observed = append(observed, v)
		}

		var history api.DetectionHistory
		if record {
			store, err := openHistory(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			history = store
		}

		results, err := decodeCodes(f, observed, history, "detect", e.logger)
		if err != nil {
			return err
		}
		return outputResults(cmd.OutOrStdout(), format, results)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	addDecodeFlags(detectCmd)

	detectCmd.Flags().Int("cells", 0, "Cells across the marker, border included (default: detect.cells from config)")
	detectCmd.Flags().Int("border", -1, "Border cells on each side (default: detect.border from config)")
	detectCmd.Flags().Int("threshold", -1, "Gray level at which a pixel counts as set (default: detect.threshold from config)")
	detectCmd.Flags().Float64("fill", -1, "Fraction of set pixels that sets a cell (default: detect.fill from config)")
	detectCmd.Flags().Bool("show-cells", false, "Print the sampled cell grid")
}

func samplerFromFlags(cmd *cobra.Command, d config.Detect) grid.Sampler {
	s := grid.Sampler{Cells: d.Cells, Border: d.Border, Threshold: d.Threshold, Fill: d.Fill}
	if v, _ := cmd.Flags().GetInt("cells"); v > 0 {
		s.Cells = v
	}
	if v, _ := cmd.Flags().GetInt("border"); v >= 0 {
		s.Border = v
	}
	if v, _ := cmd.Flags().GetInt("threshold"); v >= 0 {
		s.Threshold = v
	}
	if v, _ := cmd.Flags().GetFloat64("fill"); v >= 0 {
		s.Fill = v
	}
	return s
}

func sampleImage(path string, sampler grid.Sampler) (uint64, *grid.Matrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	v, cells, err := sampler.Sample(grid.FromImage(img))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sample image %s: %w", path, err)
	}
	return v, cells, nil
}
