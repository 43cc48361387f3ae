// Package insights summarizes result sets by college, degree and field and
// draws the summaries as terminal charts.
package insights

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/hirehub/models"
)

const (
	// TopN is the number of entries kept per summary.
	TopN = 10
	// Unknown stands in for NULL values.
	Unknown = "Unknown"

	barWidth = 40
	barChar  = "█"
)

var ErrNoData = errors.New("no data to chart")

// Count is one label and its frequency.
type Count struct {
	Label string
	N     int
}

type Summary struct {
	Total    int
	Colleges []Count
	Degrees  []Count
	Fields   []Count
}

// Summarize counts the trimmed non-empty values of college, degree and
// field. Each list holds at most TopN entries, most frequent first, ties in
// first-seen order.
func Summarize(rs models.ResultSet) Summary {
	return Summary{
		Total:    len(rs),
		Colleges: MostCommon(rs, models.ColumnCollege, TopN),
		Degrees:  MostCommon(rs, models.ColumnDegree, TopN),
		Fields:   MostCommon(rs, models.ColumnField, TopN),
	}
}

// MostCommon returns the n most frequent values of col.
func MostCommon(rs models.ResultSet, col models.Column, n int) []Count {
	index := map[string]int{}
	var counts []Count
	for _, c := range rs {
		label := Unknown
		if v := c.Value(col); v.Valid {
			label = strings.TrimSpace(v.String)
		}
		if label == "" {
			continue
		}
		if i, ok := index[label]; ok {
			counts[i].N++
			continue
		}
		index[label] = len(counts)
		counts = append(counts, Count{Label: label, N: 1})
	}

	// insertion sort keeps equal counts in first-seen order
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j].N > counts[j-1].N; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Dashboard draws the college bar chart, the degree pie chart and the field
// bar chart. Drawing stops at the first chart that cannot be produced; the
// charts already written stay on w.
func Dashboard(w io.Writer, s Summary) error {
	if s.Total == 0 {
		fmt.Fprintln(w, "No data available for statistics.")
		return ErrNoData
	}
	if len(s.Colleges) > 0 {
		if err := BarChart(w, "Top 10 Colleges (by candidate count)", "College", s.Colleges); err != nil {
			return chartFailed(w, err)
		}
	}
	if err := PieChart(w, "Degree distribution (top 10)", "Degree", s.Degrees); err != nil {
		return chartFailed(w, err)
	}
	if err := BarChart(w, "Top 10 Fields of Study", "Field", s.Fields); err != nil {
		return chartFailed(w, err)
	}
	return nil
}

func chartFailed(w io.Writer, err error) error {
	color.New(color.FgRed).Fprintln(w, "Failed to generate charts.")
	return fmt.Errorf("failed to generate charts: %w", err)
}

// BarChart renders counts as horizontal bars scaled to the largest count.
func BarChart(w io.Writer, title, label string, counts []Count) error {
	if len(counts) == 0 {
		return fmt.Errorf("%s: %w", title, ErrNoData)
	}
	top := counts[0].N
	for _, c := range counts {
		if c.N > top {
			top = c.N
		}
	}

	color.New(color.FgYellow).Fprintf(w, "\n%s\n", title)
	table := newTable(w, []string{label, "Candidates", ""})
	for _, c := range counts {
		table.Append([]string{c.Label, fmt.Sprintf("%d", c.N), bar(c.N, top)})
	}
	table.Render()
	return nil
}

// PieChart renders each count's share of the listed total.
func PieChart(w io.Writer, title, label string, counts []Count) error {
	total := 0
	for _, c := range counts {
		total += c.N
	}
	if total == 0 {
		return fmt.Errorf("%s: %w", title, ErrNoData)
	}

	color.New(color.FgYellow).Fprintf(w, "\n%s\n", title)
	table := newTable(w, []string{label, "Candidates", "Share", ""})
	for _, c := range counts {
		table.Append([]string{
			c.Label,
			fmt.Sprintf("%d", c.N),
			Percent(c.N, total),
			bar(c.N, total),
		})
	}
	table.Render()
	return nil
}

// Percent formats n/total with one decimal, e.g. "33.3%".
func Percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func bar(n, scale int) string {
	if scale <= 0 || n <= 0 {
		return ""
	}
	width := n * barWidth / scale
	if width == 0 {
		width = 1
	}
	return strings.Repeat(barChar, width)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
