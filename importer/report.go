package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/hirehub/models"
)

const sampleFailures = 10

// Print writes the column mapping, the totals and up to ten failed rows.
func (r *Report) Print(w io.Writer) {
	title := "Import Summary"
	if r.DryRun {
		title = "Dry Run Analysis"
	}
	color.New(color.FgCyan).Fprintf(w, "\n%s (run %s)\n", title, r.RunID)

	mapping := tablewriter.NewWriter(w)
	mapping.SetHeader([]string{"Column", "Source Header", "Match"})
	for _, col := range models.StoreColumns {
		m, ok := r.Mapping[col]
		if !ok {
			mapping.Append([]string{string(col), "-", "NULL"})
			continue
		}
		match := string(m.Kind)
		if m.Kind == MatchFuzzy {
			match = fmt.Sprintf("%s %.0f%%", m.Kind, m.Confidence*100)
		}
		mapping.Append([]string{string(col), m.SourceColumn, match})
	}
	mapping.Render()

	ok := r.Imported
	okLabel := "Imported"
	if r.DryRun {
		okLabel = "Valid"
	}
	totals := tablewriter.NewWriter(w)
	totals.SetHeader([]string{"Rows", okLabel, "Failed"})
	totals.Append([]string{
		fmt.Sprintf("%d", r.Total),
		fmt.Sprintf("%d (%s)", ok, percent(ok, r.Total)),
		fmt.Sprintf("%d (%s)", r.Failed(), percent(r.Failed(), r.Total)),
	})
	totals.Render()

	if r.Failed() == 0 {
		color.New(color.FgGreen).Fprintln(w, "No failed rows.")
		return
	}

	counts := r.ReasonCounts()
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})

	color.New(color.FgYellow).Fprintln(w, "\nFailure Reasons")
	reasons := tablewriter.NewWriter(w)
	reasons.SetHeader([]string{"Code", "Rows"})
	for _, code := range codes {
		reasons.Append([]string{code, fmt.Sprintf("%d", counts[code])})
	}
	reasons.Render()

	color.New(color.FgYellow).Fprintf(w, "\nSample Failed Rows (up to %d)\n", sampleFailures)
	sample := tablewriter.NewWriter(w)
	sample.SetHeader([]string{"Row", "Name", "Reason"})
	for i := 0; i < min(sampleFailures, len(r.Failures)); i++ {
		f := r.Failures[i]
		name := ""
		if m, ok := r.Mapping[models.ColumnName]; ok && m.Index < len(f.Data) {
			name = strings.TrimSpace(f.Data[m.Index])
		}
		sample.Append([]string{fmt.Sprintf("%d", f.Row), name, f.Err.Error()})
	}
	sample.Render()

	if r.FailedFile != "" {
		fmt.Fprintf(w, "Failed rows saved to: %s\n", r.FailedFile)
	}
}

func percent(n, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(n)/float64(total)*100)
}
