package models

import (
	"fmt"
	"strings"
)

// Column is an allow-listed column identifier of the candidates table.
// Only values of this type are ever interpolated into SQL text.
type Column string

const (
	ColumnName     Column = "name"
	ColumnSkills   Column = "skills"
	ColumnCollege  Column = "college"
	ColumnDegree   Column = "degree"
	ColumnField    Column = "field"
	ColumnCompany  Column = "company"
	ColumnPosition Column = "position"
)

// StoreColumns is the select and insert order.
var StoreColumns = []Column{
	ColumnName, ColumnSkills, ColumnCollege, ColumnDegree, ColumnField, ColumnCompany, ColumnPosition,
}

// DisplayColumns is the table view order.
var DisplayColumns = []Column{
	ColumnName, ColumnCollege, ColumnDegree, ColumnField, ColumnCompany, ColumnPosition, ColumnSkills,
}

// MutableColumns can be changed by an update; name is fixed once inserted.
var MutableColumns = []Column{
	ColumnSkills, ColumnCollege, ColumnDegree, ColumnField, ColumnCompany, ColumnPosition,
}

// ParseColumn resolves user input to a column, ignoring case and surrounding space.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range StoreColumns {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column: %q", s)
}

// Mutable reports whether c may be targeted by an update.
func (c Column) Mutable() bool {
	for _, m := range MutableColumns {
		if c == m {
			return true
		}
	}
	return false
}

// Label is the capitalized header text, e.g. "College".
func (c Column) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// JoinColumns renders a column list for a SELECT or INSERT.
func JoinColumns(cols []Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
