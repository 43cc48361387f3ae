// Package filter turns optional, comma-separated field inputs into a
// conjunctive predicate over the candidates table.
//
// Values of one field are alternatives (OR). Skill tokens are all required
// (AND). Per-field groups are combined with AND. Every value is emitted as a
// bound parameter; only allow-listed column names appear in the SQL text.
package filter

import (
	"fmt"
	"strings"

	"github.com/nonsonwune/hirehub/models"
)

// Spec holds the raw filter inputs as typed by the user.
type Spec struct {
	Field    string
	College  string
	Degree   string
	Company  string
	Position string
	Skills   []string
}

// IsZero reports whether no input was supplied at all.
func (s Spec) IsZero() bool {
	return s.Field == "" && s.College == "" && s.Degree == "" &&
		s.Company == "" && s.Position == "" && len(s.Skills) == 0
}

// Op joins the conditions of a group.
type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
)

// Condition is a substring match of Value against Column.
type Condition struct {
	Column models.Column
	Value  string
}

// Group is one per-field clause.
type Group struct {
	Op         Op
	Conditions []Condition
	// Parens is set for multi-value groups and for the skills group.
	Parens bool
}

// Predicate is an AND of groups. The zero value matches everything.
type Predicate struct {
	Groups []Group
}

// Build translates a Spec. Blank values are dropped; a field whose input is
// blank after trimming contributes nothing.
func Build(s Spec) Predicate {
	var p Predicate
	fields := []struct {
		col models.Column
		raw string
	}{
		{models.ColumnField, s.Field},
		{models.ColumnCollege, s.College},
		{models.ColumnDegree, s.Degree},
		{models.ColumnCompany, s.Company},
		{models.ColumnPosition, s.Position},
	}
	for _, f := range fields {
		values := models.SplitList(f.raw)
		if len(values) == 0 {
			continue
		}
		g := Group{Op: OpOr, Parens: len(values) > 1}
		for _, v := range values {
			g.Conditions = append(g.Conditions, Condition{Column: f.col, Value: v})
		}
		p.Groups = append(p.Groups, g)
	}

	var skills []Condition
	for _, tok := range s.Skills {
		if tok = strings.TrimSpace(tok); tok != "" {
			skills = append(skills, Condition{Column: models.ColumnSkills, Value: tok})
		}
	}
	if len(skills) > 0 {
		p.Groups = append(p.Groups, Group{Op: OpAnd, Conditions: skills, Parens: true})
	}
	return p
}

// ParseSkills splits the comma-separated skills prompt.
func ParseSkills(raw string) []string {
	return models.SplitList(raw)
}

// Empty reports whether the predicate filters nothing.
func (p Predicate) Empty() bool {
	return len(p.Groups) == 0
}

// SQL renders the predicate without the WHERE keyword. placeholder maps a
// 1-based argument position to the driver's bind syntax; start is the
// position of the first argument produced here.
func (p Predicate) SQL(placeholder func(n int) string, start int) (string, []any) {
	if p.Empty() {
		return "", nil
	}
	var (
		clauses []string
		args    []any
	)
	n := start
	for _, g := range p.Groups {
		parts := make([]string, 0, len(g.Conditions))
		for _, c := range g.Conditions {
			parts = append(parts, fmt.Sprintf("%s LIKE %s ESCAPE '\\'", c.Column, placeholder(n)))
			args = append(args, LikePattern(c.Value))
			n++
		}
		clause := strings.Join(parts, " "+string(g.Op)+" ")
		if g.Parens {
			clause = "(" + clause + ")"
		}
		clauses = append(clauses, clause)
	}
	return strings.Join(clauses, " AND "), args
}

// Matches evaluates the predicate against c in memory. Matching is
// case-sensitive and NULL values never match.
func (p Predicate) Matches(c models.Candidate) bool {
	for _, g := range p.Groups {
		if !g.matches(c) {
			return false
		}
	}
	return true
}

func (g Group) matches(c models.Candidate) bool {
	for _, cond := range g.Conditions {
		ok := cond.matches(c)
		if g.Op == OpOr && ok {
			return true
		}
		if g.Op == OpAnd && !ok {
			return false
		}
	}
	return g.Op == OpAnd
}

func (cond Condition) matches(c models.Candidate) bool {
	v := c.Value(cond.Column)
	return v.Valid && strings.Contains(v.String, cond.Value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps s for a substring LIKE with backslash as escape character.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
