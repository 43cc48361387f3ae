package prompts

import (
	"strings"

	"github.com/nonsonwune/hirehub/models"
)

// hintColumns are the columns whose known values are offered to the model.
var hintColumns = []models.Column{
	models.ColumnCollege, models.ColumnDegree, models.ColumnField,
	models.ColumnCompany, models.ColumnPosition,
}

// fieldCategories expand a broad word in a question to the fields that
// belong to it.
var fieldCategories = map[string][]string{
	"engineering": {"engineering", "engineer", "mechanical", "electrical", "electronic", "civil", "chemical", "aerospace"},
	"computing":   {"computer", "computing", "software", "information technology", "data", "artificial intelligence", "cyber"},
	"science":     {"science", "biology", "chemistry", "physics", "mathematics", "statistics", "biotechnology"},
	"business":    {"business", "management", "commerce", "accounting", "finance", "economics", "marketing", "mba"},
	"design":      {"design", "architecture", "arts", "media", "communication"},
	"health":      {"medicine", "medical", "health", "pharmacy", "nursing", "biomedical"},
}

// ValueMatcher knows the distinct values stored in the table so that
// prompts can mention them and model output can be mapped to their exact
// spelling.
type ValueMatcher struct {
	values map[models.Column]map[string]string // lower-case -> stored spelling
}

func NewValueMatcher() *ValueMatcher {
	return &ValueMatcher{values: make(map[models.Column]map[string]string)}
}

// Load records the values of rs. Multi-valued text is not split.
func (vm *ValueMatcher) Load(rs models.ResultSet) {
	for _, c := range rs {
		for _, col := range hintColumns {
			v := strings.TrimSpace(c.Get(col))
			if v == "" {
				continue
			}
			if vm.values[col] == nil {
				vm.values[col] = make(map[string]string)
			}
			if _, ok := vm.values[col][strings.ToLower(v)]; !ok {
				vm.values[col][strings.ToLower(v)] = v
			}
		}
	}
}

// Len is the number of distinct values known.
func (vm *ValueMatcher) Len() int {
	n := 0
	for _, m := range vm.values {
		n += len(m)
	}
	return n
}

// Canonical returns the stored spelling of v for col, or v unchanged.
func (vm *ValueMatcher) Canonical(col models.Column, v string) string {
	if exact, ok := vm.values[col][strings.ToLower(strings.TrimSpace(v))]; ok {
		return exact
	}
	return v
}

// Hints returns the known values mentioned in question. A broad category
// word such as "engineering" also pulls in every field of that category.
func (vm *ValueMatcher) Hints(question string) map[models.Column][]string {
	q := strings.ToLower(question)
	found := make(map[models.Column][]string)
	seen := make(map[models.Column]map[string]bool)

	add := func(col models.Column, v string) {
		if seen[col] == nil {
			seen[col] = make(map[string]bool)
		}
		if !seen[col][v] {
			seen[col][v] = true
			found[col] = append(found[col], v)
		}
	}

	for _, col := range hintColumns {
		for lower, exact := range vm.values[col] {
			if len(lower) >= 2 && strings.Contains(q, lower) {
				add(col, exact)
			}
		}
	}

	for category, keywords := range fieldCategories {
		if !mentions(q, category, keywords) {
			continue
		}
		for lower, exact := range vm.values[models.ColumnField] {
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					add(models.ColumnField, exact)
					break
				}
			}
		}
	}
	return found
}

func mentions(q, category string, keywords []string) bool {
	if strings.Contains(q, category) {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
