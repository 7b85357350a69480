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

// WriteRetrievalResult outputs a retrieval result, dispatching based on the output format configured.
func WriteRetrievalResult(result *schema.RetrievalResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetrievalCSV(w, result, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetrievalTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// itemPath resolves the display path of a context item, falling back to the
// node ID when the builder attached no path metadata.
func itemPath(item *schema.ContextItem) string {
	if p, ok := item.Metadata["path"].(string); ok && p != "" {
		return p
	}
	return item.NodeID
}

// writeRetrievalTable generates and writes the human-readable table.
func writeRetrievalTable(result *schema.RetrievalResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if result.Status == schema.StatusNoStartNodes {
		_, err := fmt.Fprintln(writer, "No start nodes could be resolved from the query. Provide an error file, stack trace files or keywords.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Type", "Score", "Tokens"})
	table.Configure(func(tblCfg *tablewriter.Config) {
		tblCfg.Row.Alignment.Global = tw.AlignRight
	})

	maxPathWidth := GetMaxTablePathWidth(cfg)
	totalTokens := 0
	var data [][]string
	for i, item := range result.Context {
		tokens := len(item.Content) / schema.CharsPerToken
		totalTokens += tokens
		data = append(data, []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncatePath(itemPath(&result.Context[i]), maxPathWidth), // Path
			string(item.Type),             // Type
			fmtFloat(item.RelevanceScore), // Score
			strconv.Itoa(tokens),          // Tokens
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Retrieved %d items (~%d tokens) exploring %d nodes at depth k=%d\n",
		len(result.Context), totalTokens, result.NodesExplored, result.KValue); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Estimated precision %s, recall %s. Retrieval completed in %v\n",
		fmtFloat(result.PrecisionEstimate), fmtFloat(result.RecallEstimate), duration); err != nil {
		return err
	}
	return nil
}

// writeRetrievalCSV writes the retrieval result in CSV format.
func writeRetrievalCSV(w io.Writer, result *schema.RetrievalResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"node_id",
		"path",
		"type",
		"score",
		"tokens",
		"retrieval_path",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, item := range result.Context {
			rec := []string{
				strconv.Itoa(i + 1),
				item.NodeID,
				itemPath(&result.Context[i]),
				string(item.Type),
				fmtFloat(item.RelevanceScore),
				fmt.Sprintf(intFmt, len(item.Content)/schema.CharsPerToken),
				strings.Join(item.RetrievalPath, "|"),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
