package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// WriteRepositoryInsights outputs repository insights, dispatching based on the output format configured.
func WriteRepositoryInsights(repo string, insights *schema.RepositoryInsights, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, insights)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsCSV(w, insights, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsText(repo, insights, fmtFloat, w)
		}, "Wrote insights")
	}
}

// sortedCategories returns the category counts sorted by count desc, name asc.
func sortedCategories(counts map[schema.BugCategory]int) []schema.BugCategory {
	cats := make([]schema.BugCategory, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}

// writeInsightsText writes the human-readable insights report.
func writeInsightsText(repo string, insights *schema.RepositoryInsights, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Repository: %s\n", repo); err != nil {
		return err
	}

	if insights.Memory == nil && insights.Rolling.SessionCount == 0 {
		_, err := fmt.Fprintln(writer, "No debugging history recorded for this repository.")
		return err
	}

	fmt.Fprintf(writer, "Last 30 days: %d sessions, %s success rate, avg %ss over %s iterations\n",
		insights.Rolling.SessionCount,
		fmtFloat(insights.Rolling.SuccessRate),
		fmtFloat(insights.Rolling.AvgDuration),
		fmtFloat(insights.Rolling.AvgIterations))

	if insights.Memory != nil {
		fmt.Fprintf(writer, "Last updated: %s\n", insights.Memory.LastUpdated.Format("2006-01-02 15:04:05"))
		if len(insights.Memory.CommonBugs) > 0 {
			fmt.Fprintln(writer, "Common bug categories:")
			for _, cat := range sortedCategories(insights.Memory.CommonBugs) {
				fmt.Fprintf(writer, "  %s: %d\n", cat, insights.Memory.CommonBugs[cat])
			}
		}
	}

	if len(insights.Patterns) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Pattern", "Category", "Freq", "Success", "Avg Fix (s)", "Last Seen"})
	table.Configure(func(tblCfg *tablewriter.Config) {
		tblCfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range insights.Patterns {
		data = append(data, []string{
			p.PatternID,
			string(p.Category),
			strconv.Itoa(p.Frequency),
			fmtFloat(p.SuccessRate),
			fmtFloat(p.AvgFixTime),
			p.LastSeen.Format("2006-01-02"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeInsightsCSV writes the materialized patterns of the insights in CSV format.
func writeInsightsCSV(w io.Writer, insights *schema.RepositoryInsights, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"pattern_id",
		"category",
		"frequency",
		"success_rate",
		"avg_fix_time",
		"last_seen",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, p := range insights.Patterns {
			rec := []string{
				p.PatternID,
				string(p.Category),
				fmt.Sprintf(intFmt, p.Frequency),
				fmtFloat(p.SuccessRate),
				fmtFloat(p.AvgFixTime),
				p.LastSeen.Format(time.RFC3339),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
