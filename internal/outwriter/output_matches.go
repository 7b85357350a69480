package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// WritePatternMatches outputs similar-pattern matches, dispatching based on the output format configured.
func WritePatternMatches(matches []schema.PatternMatch, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatchesJSON(w, matches)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatchesCSV(w, matches, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatchesTable(matches, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// bestFix returns the first stored fix of a pattern, or empty.
func bestFix(p *schema.BugPattern) string {
	if len(p.Fixes) == 0 {
		return ""
	}
	return p.Fixes[0]
}

// writeMatchesTable generates and writes the human-readable table.
func writeMatchesTable(matches []schema.PatternMatch, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(writer, "No similar patterns above the confidence threshold.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Pattern", "Category", "Similarity", "Label", "Freq", "Success", "Suggested Fix"})
	table.Configure(func(tblCfg *tablewriter.Config) {
		tblCfg.Row.Alignment.Global = tw.AlignRight
	})

	maxFixWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, m := range matches {
		label := contract.GetPlainLabel(m.Similarity)
		if cfg.UseColors {
			label = contract.GetColorLabel(m.Similarity)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),      // Rank
			m.Pattern.PatternID,      // Pattern
			string(m.Pattern.Category), // Category
			fmtFloat(m.Similarity),   // Similarity
			label,                    // Label
			strconv.Itoa(m.Pattern.Frequency),                          // Freq
			fmtFloat(m.Pattern.SuccessRate),                            // Success
			contract.TruncatePath(bestFix(&m.Pattern), maxFixWidth),    // Suggested Fix
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d matches. Lookup completed in %v\n", len(matches), duration); err != nil {
		return err
	}
	return nil
}

// writeMatchesCSV writes pattern matches in CSV format.
func writeMatchesCSV(w io.Writer, matches []schema.PatternMatch, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"pattern_id",
		"category",
		"similarity",
		"label",
		"frequency",
		"success_rate",
		"avg_fix_time",
		"last_seen",
		"fixes",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, m := range matches {
			rec := []string{
				strconv.Itoa(i + 1),
				m.Pattern.PatternID,
				string(m.Pattern.Category),
				fmtFloat(m.Similarity),
				contract.GetPlainLabel(m.Similarity),
				fmt.Sprintf(intFmt, m.Pattern.Frequency),
				fmtFloat(m.Pattern.SuccessRate),
				fmtFloat(m.Pattern.AvgFixTime),
				m.Pattern.LastSeen.Format(time.RFC3339),
				strings.Join(m.Pattern.Fixes, "|"),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeMatchesJSON writes pattern matches in JSON format with rank and label added.
func writeMatchesJSON(w io.Writer, matches []schema.PatternMatch) error {
	type JSONPatternMatch struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.PatternMatch
	}

	output := make([]JSONPatternMatch, len(matches))
	for i, m := range matches {
		output[i] = JSONPatternMatch{
			Rank:         i + 1,
			Label:        contract.GetPlainLabel(m.Similarity),
			PatternMatch: m,
		}
	}
	return writeJSON(w, output)
}
