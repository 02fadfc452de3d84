/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/quickdecode"
	"github.com/ssargent/tagdecode/pkg/storage"
)

// decodeResult is one decoded observation as printed by decode and detect.
type decodeResult struct {
	Family      string `json:"family"`
	Observed    string `json:"observed"`
	Found       bool   `json:"found"`
	Reference   string `json:"reference,omitempty"` // family codeword identified
	Matched     string `json:"matched,omitempty"`   // stored table word that matched
	ID          uint16 `json:"id"`
	Hamming     uint8  `json:"hamming"`
	Rotation    uint8  `json:"rotation"`
	DetectionID string `json:"detection_id,omitempty"`
}

func newDecodeResult(f *family.Family, observed uint64, e quickdecode.Entry) decodeResult {
	r := decodeResult{
		Family:   f.Name,
		Observed: family.FormatCode(observed),
		Found:    e.Found(),
		ID:       e.ID,
		Hamming:  e.Hamming,
		Rotation: e.Rotation,
	}
	if r.Found {
		r.Matched = family.FormatCode(e.Code)
		if int(e.ID) < len(f.Codes) {
			r.Reference = family.FormatCode(f.Codes[e.ID])
		}
	}
	return r
}

func outputResults(w io.Writer, format string, results []decodeResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OBSERVED\tFAMILY\tID\tREFERENCE\tMATCHED\tHAMMING\tROTATION\tDETECTION")
	for _, r := range results {
		if !r.Found {
			fmt.Fprintf(tw, "%s\t%s\t-\tno match\t-\t-\t-\t%s\n", r.Observed, r.Family, r.DetectionID)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%d\t%d\t%s\n",
			r.Observed, r.Family, r.ID, r.Reference, r.Matched, r.Hamming, r.Rotation, r.DetectionID)
	}
	return tw.Flush()
}

func outputFamilies(w io.Writer, families []*family.Family, withStats bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withStats {
		fmt.Fprintln(tw, "NAME\tBITS\tMIN HAMMING\tBORDER\tCODES\tSLOTS\tENTRIES\tLONGEST RUN\tLOAD")
	} else {
		fmt.Fprintln(tw, "NAME\tBITS\tMIN HAMMING\tBORDER\tCODES")
	}

	for _, f := range families {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d", f.Name, f.Bits, f.MinHamming, f.BlackBorder, len(f.Codes))
		if withStats {
			if stats, err := f.Stats(); err == nil {
				fmt.Fprintf(tw, "\t%d\t%d\t%d\t%.3f", stats.Slots, stats.Entries, stats.LongestRun, stats.LoadFactor)
			} else {
				fmt.Fprint(tw, "\t-\t-\t-\t-")
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func outputDetections(w io.Writer, format string, detections []*storage.Detection) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(detections)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFAMILY\tOBSERVED\tRESULT\tSOURCE")
	for _, d := range detections {
		result := "no match"
		if d.Found {
			result = fmt.Sprintf("id=%d hamming=%d rotation=%d", d.Entry.ID, d.Entry.Hamming, d.Entry.Rotation)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.CreatedAt.Format(time.RFC3339), d.Family, family.FormatCode(d.Observed), result, d.Source)
	}
	return tw.Flush()
}
