package models

import (
	"database/sql"
	"strings"
)

// Candidate represents one row of the candidates table
type Candidate struct {
	Name     sql.NullString `db:"name" json:"name"`
	Skills   sql.NullString `db:"skills" json:"skills,omitempty"`
	College  sql.NullString `db:"college" json:"college,omitempty"`
	Degree   sql.NullString `db:"degree" json:"degree,omitempty"`
	Field    sql.NullString `db:"field" json:"field,omitempty"`
	Company  sql.NullString `db:"company" json:"company,omitempty"`
	Position sql.NullString `db:"position" json:"position,omitempty"`
}

// NewCandidate builds a record with every attribute present. Arguments follow
// the store column order.
func NewCandidate(name, skills, college, degree, field, company, position string) Candidate {
	return Candidate{
		Name:     Text(name),
		Skills:   Text(skills),
		College:  Text(college),
		Degree:   Text(degree),
		Field:    Text(field),
		Company:  Text(company),
		Position: Text(position),
	}
}

// Text wraps s as a non-NULL value.
func Text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// Value returns the raw value of column c.
func (c Candidate) Value(col Column) sql.NullString {
	switch col {
	case ColumnName:
		return c.Name
	case ColumnSkills:
		return c.Skills
	case ColumnCollege:
		return c.College
	case ColumnDegree:
		return c.Degree
	case ColumnField:
		return c.Field
	case ColumnCompany:
		return c.Company
	case ColumnPosition:
		return c.Position
	}
	return sql.NullString{}
}

// Get returns column c as display text; NULL becomes the empty string.
func (c Candidate) Get(col Column) string {
	v := c.Value(col)
	if !v.Valid {
		return ""
	}
	return v.String
}

// Set replaces the value of column c. Unknown columns are ignored.
func (c *Candidate) Set(col Column, v sql.NullString) {
	switch col {
	case ColumnName:
		c.Name = v
	case ColumnSkills:
		c.Skills = v
	case ColumnCollege:
		c.College = v
	case ColumnDegree:
		c.Degree = v
	case ColumnField:
		c.Field = v
	case ColumnCompany:
		c.Company = v
	case ColumnPosition:
		c.Position = v
	}
}

// Args returns the values in StoreColumns order, ready to bind.
func (c Candidate) Args() []any {
	args := make([]any, 0, len(StoreColumns))
	for _, col := range StoreColumns {
		args = append(args, c.Value(col))
	}
	return args
}

// ScanTargets returns pointers in StoreColumns order for rows.Scan.
func (c *Candidate) ScanTargets() []any {
	return []any{&c.Name, &c.Skills, &c.College, &c.Degree, &c.Field, &c.Company, &c.Position}
}

// SkillTokens splits the skills text on commas, dropping empty tokens.
func (c Candidate) SkillTokens() []string {
	return SplitList(c.Get(ColumnSkills))
}

// SplitList splits a comma-separated value and trims every element.
// Empty elements are dropped.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ResultSet is an ordered sequence of candidates as returned by the store.
type ResultSet []Candidate

// Empty reports whether the set holds no rows.
func (rs ResultSet) Empty() bool {
	return len(rs) == 0
}

// Clone returns a shallow copy that can be reordered independently.
func (rs ResultSet) Clone() ResultSet {
	if rs == nil {
		return nil
	}
	out := make(ResultSet, len(rs))
	copy(out, rs)
	return out
}

// Names lists the name column, mainly for logging and tests.
func (rs ResultSet) Names() []string {
	names := make([]string, 0, len(rs))
	for _, c := range rs {
		names = append(names, c.Get(ColumnName))
	}
	return names
}
