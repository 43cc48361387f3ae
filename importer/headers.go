package importer

import (
	"sort"
	"strings"

	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/models"
)

// MatchKind records how a source header was resolved.
type MatchKind string

const (
	MatchExact      MatchKind = "exact"
	MatchNormalized MatchKind = "normalized"
	MatchAlias      MatchKind = "alias"
	MatchFuzzy      MatchKind = "fuzzy"
)

// ColumnMatch represents a potential column match with confidence score
type ColumnMatch struct {
	Column       models.Column
	SourceColumn string
	Index        int
	Kind         MatchKind
	Confidence   float64
}

// HeaderMapping maps each resolved candidate column to its source header.
// Columns without a source are imported as NULL.
type HeaderMapping map[models.Column]ColumnMatch

// headerAliases are common export headings that no edit distance would
// connect to a column name. Keys are normalized.
var headerAliases = map[string]models.Column{
	"fullname":        models.ColumnName,
	"candidate":       models.ColumnName,
	"candidatename":   models.ColumnName,
	"skillset":        models.ColumnSkills,
	"keyskills":       models.ColumnSkills,
	"university":      models.ColumnCollege,
	"school":          models.ColumnCollege,
	"institution":     models.ColumnCollege,
	"qualification":   models.ColumnDegree,
	"fieldofstudy":    models.ColumnField,
	"major":           models.ColumnField,
	"currentcompany":  models.ColumnCompany,
	"employer":        models.ColumnCompany,
	"organization":    models.ColumnCompany,
	"currentposition": models.ColumnPosition,
	"jobtitle":        models.ColumnPosition,
	"title":           models.ColumnPosition,
	"role":            models.ColumnPosition,
}

// MapHeaders resolves the source headers. Each column takes the first
// header that matches it exactly (ignoring case), then after removing
// spaces, underscores and hyphens, then through an alias, then by fuzzy
// score of at least AutoAcceptConfidence. A fuzzy match is refused when two
// headers tie for best. A header is never used for two columns. A file
// without a name column is rejected.
func MapHeaders(headers []string) (HeaderMapping, error) {
	m := make(HeaderMapping)
	used := make(map[int]bool)

	assign := func(col models.Column, idx int, kind MatchKind, conf float64) {
		m[col] = ColumnMatch{Column: col, SourceColumn: headers[idx], Index: idx, Kind: kind, Confidence: conf}
		used[idx] = true
	}

	for _, col := range models.StoreColumns {
		for i, h := range headers {
			if !used[i] && strings.EqualFold(strings.TrimSpace(h), string(col)) {
				assign(col, i, MatchExact, 1)
				break
			}
		}
	}
	for _, col := range models.StoreColumns {
		if _, ok := m[col]; ok {
			continue
		}
		for i, h := range headers {
			if !used[i] && normalizeHeader(h) == string(col) {
				assign(col, i, MatchNormalized, 1)
				break
			}
		}
	}
	for _, col := range models.StoreColumns {
		if _, ok := m[col]; ok {
			continue
		}
		for i, h := range headers {
			if !used[i] && headerAliases[normalizeHeader(h)] == col {
				assign(col, i, MatchAlias, 1)
				break
			}
		}
	}
	for _, col := range models.StoreColumns {
		if _, ok := m[col]; ok {
			continue
		}
		var open []int
		for i := range headers {
			if !used[i] {
				open = append(open, i)
			}
		}
		matches := findBestColumnMatch(col, headers, open)
		if len(matches) == 0 || matches[0].Confidence < AutoAcceptConfidence {
			continue
		}
		if len(matches) > 1 && matches[1].Confidence == matches[0].Confidence {
			logger.Log.Warn("ambiguous header match skipped",
				"column", string(col), "first", matches[0].SourceColumn, "second", matches[1].SourceColumn)
			continue
		}
		best := matches[0]
		assign(col, best.Index, MatchFuzzy, best.Confidence)
		logger.Log.Info("header mapped by similarity",
			"column", string(col), "header", best.SourceColumn, "confidence", best.Confidence)
	}

	if _, ok := m[models.ColumnName]; !ok {
		return nil, newImportError(CodeMissingName, "no header maps to the name column: %v", headers)
	}
	for _, col := range models.StoreColumns {
		if _, ok := m[col]; !ok {
			logger.Log.Warn("column has no source header, importing NULL", "column", string(col))
		}
	}
	return m, nil
}

// Candidate builds a record from one source row. Cells are trimmed and a
// blank cell is NULL.
func (m HeaderMapping) Candidate(record []string) models.Candidate {
	var c models.Candidate
	for col, match := range m {
		if match.Index >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[match.Index]); v != "" {
			c.Set(col, models.Text(v))
		}
	}
	return c
}

// Missing lists the columns that will be imported as NULL, in store order.
func (m HeaderMapping) Missing() []models.Column {
	var out []models.Column
	for _, col := range models.StoreColumns {
		if _, ok := m[col]; !ok {
			out = append(out, col)
		}
	}
	return out
}

// findBestColumnMatch scores the candidate headers against col and returns
// those above the candidate threshold, best first.
func findBestColumnMatch(col models.Column, headers []string, candidates []int) []ColumnMatch {
	target := string(col)
	var matches []ColumnMatch
	for _, i := range candidates {
		source := normalizeHeader(headers[i])
		if source == "" {
			continue
		}
		distance := levenshteinDistance(source, target)
		confidence := 1.0 - float64(distance)/float64(max(len(source), len(target)))
		if confidence > candidateConfidence {
			matches = append(matches, ColumnMatch{
				Column:       col,
				SourceColumn: headers[i],
				Index:        i,
				Kind:         MatchFuzzy,
				Confidence:   confidence,
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

var headerNoise = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "")

func normalizeHeader(h string) string {
	return headerNoise.Replace(strings.ToLower(strings.TrimSpace(h)))
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(s2)]
}
