// Package present renders candidate result sets as a fixed-width table or as
// per-record cards.
package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nonsonwune/hirehub/models"
)

// NoResults is printed instead of any table or card output.
const NoResults = "No matching candidates found."

const (
	ellipsis  = "..."
	cardRule  = 60
	wrapWidth = 80
)

// Widths is the maximum display width of each table column.
var Widths = map[models.Column]int{
	models.ColumnName:     15,
	models.ColumnCollege:  20,
	models.ColumnDegree:   15,
	models.ColumnField:    15,
	models.ColumnCompany:  20,
	models.ColumnPosition: 15,
	models.ColumnSkills:   50,
}

// View selects one of the two renderings.
type View int

const (
	ViewTable View = iota + 1
	ViewCard
)

func (v View) String() string {
	switch v {
	case ViewTable:
		return "table"
	case ViewCard:
		return "card"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView accepts the menu numbers and the flag names.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "table":
		return ViewTable, nil
	case "2", "card", "detailed":
		return ViewCard, nil
	}
	return 0, fmt.Errorf("invalid view %q: choose 1 (table) or 2 (card)", s)
}

type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Render dispatches to Table or Cards.
func (p *Printer) Render(v View, rs models.ResultSet) error {
	switch v {
	case ViewTable:
		p.Table(rs)
	case ViewCard:
		p.Cards(rs)
	default:
		return fmt.Errorf("unknown view: %s", v)
	}
	return nil
}

// Table prints rs with one bordered line per record.
func (p *Printer) Table(rs models.ResultSet) {
	if rs.Empty() {
		p.noResults()
		return
	}

	cols := models.DisplayColumns
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, ruleLine(cols, "="))

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = Center(col.Label(), Widths[col])
	}
	fmt.Fprintln(p.w, "|"+strings.Join(header, "|")+"|")
	fmt.Fprintln(p.w, ruleLine(cols, "="))

	for _, c := range rs {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = Cell(c.Get(col), Widths[col])
		}
		fmt.Fprintln(p.w, "|"+strings.Join(cells, "|")+"|")
		fmt.Fprintln(p.w, ruleLine(cols, "-"))
	}
	fmt.Fprintln(p.w)
}

// Cards prints one labeled block per record, numbered from 1.
func (p *Printer) Cards(rs models.ResultSet) {
	if rs.Empty() {
		p.noResults()
		return
	}

	rule := strings.Repeat("-", cardRule)
	for i, c := range rs {
		fmt.Fprintln(p.w, rule)
		fmt.Fprintf(p.w, "Candidate #%d\n", i+1)
		fmt.Fprintln(p.w, rule)
		fmt.Fprintf(p.w, "Name     : %s\n", c.Get(models.ColumnName))
		fmt.Fprintf(p.w, "College  : %s\n", c.Get(models.ColumnCollege))
		fmt.Fprintf(p.w, "Degree   : %s\n", c.Get(models.ColumnDegree))
		fmt.Fprintf(p.w, "Field    : %s\n", c.Get(models.ColumnField))
		fmt.Fprintf(p.w, "Company  : %s\n", c.Get(models.ColumnCompany))
		fmt.Fprintf(p.w, "Position : %s\n", c.Get(models.ColumnPosition))
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, "Skills:")
		for _, line := range Wrap(c.Get(models.ColumnSkills), wrapWidth) {
			fmt.Fprintln(p.w, "  "+line)
		}
		fmt.Fprintln(p.w, rule)
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) noResults() {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, NoResults)
}

func ruleLine(cols []models.Column, fill string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = strings.Repeat(fill, Widths[col])
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// Truncate shortens s to width display columns, ending in "..." when cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, ellipsis)
}

// Cell truncates s and left-justifies it in width columns.
func Cell(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Center pads s on both sides to width. When the margin is odd the extra
// space goes left only if width is odd as well.
func Center(s string, width int) string {
	marg := width - runewidth.StringWidth(s)
	if marg <= 0 {
		return s
	}
	left := marg/2 + (marg & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}

// Wrap breaks text on whitespace into lines no wider than width, filling
// each line greedily. Words wider than width are split across lines.
func Wrap(text string, width int) []string {
	width = max(width, 1)

	var (
		lines []string
		line  strings.Builder
		used  int
	)
	flush := func() {
		if used > 0 {
			lines = append(lines, line.String())
			line.Reset()
			used = 0
		}
	}

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if used > 0 && used+1+w <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			used += 1 + w
			continue
		}
		flush()
		for w > width {
			head := splitWidth(word, width)
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		line.WriteString(word)
		used = w
	}
	flush()
	return lines
}

// splitWidth returns the longest prefix of s that fits in width columns,
// and at least one rune.
func splitWidth(s string, width int) string {
	used := 0
	for i, r := range s {
		used += runewidth.RuneWidth(r)
		if used > width && i > 0 {
			return s[:i]
		}
	}
	return s
}
