// Package sorter reorders result sets for display.
package sorter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nonsonwune/hirehub/models"
)

var ErrInvalidKey = errors.New("invalid sort key")

// Key names a sort order.
type Key string

const (
	KeyName        Key = "name"
	KeyCollege     Key = "college"
	KeyDegree      Key = "degree"
	KeyField       Key = "field"
	KeyCompany     Key = "company"
	KeyPosition    Key = "position"
	KeySkillsCount Key = "skills_count"
)

// Option is one entry of the sort menu.
type Option struct {
	Key   Key
	Label string
}

var options = []Option{
	{KeyName, "Name (A→Z)"},
	{KeyCollege, "College (A→Z)"},
	{KeyDegree, "Degree (A→Z)"},
	{KeyField, "Field (A→Z)"},
	{KeyCompany, "Company (A→Z)"},
	{KeyPosition, "Position (A→Z)"},
	{KeySkillsCount, "Number of Skills (descending)"},
}

// Options lists the keys in menu order.
func Options() []Option {
	return slices.Clone(options)
}

// KeyForChoice maps a 1-based menu number to its key.
func KeyForChoice(choice string) (Key, error) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(options) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, choice)
	}
	return options[n-1].Key, nil
}

// ParseKey accepts a key name such as "college" or "skills_count".
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	for _, o := range options {
		if o.Key == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
}

// SkillCount is the number of non-empty comma-separated tokens in skills.
func SkillCount(skills string) int {
	return len(models.SplitList(skills))
}

// Sort returns a reordered copy of rs. Column keys sort ascending by byte
// order with NULLs last; KeySkillsCount sorts by descending token count.
// Ties keep their input order. An unknown key returns rs unchanged.
func Sort(rs models.ResultSet, key Key) (models.ResultSet, error) {
	if key == KeySkillsCount {
		out := rs.Clone()
		slices.SortStableFunc(out, func(a, b models.Candidate) int {
			return cmp.Compare(SkillCount(b.Get(models.ColumnSkills)), SkillCount(a.Get(models.ColumnSkills)))
		})
		return out, nil
	}

	col, err := models.ParseColumn(string(key))
	if err != nil || col == models.ColumnSkills {
		return rs, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	out := rs.Clone()
	slices.SortStableFunc(out, func(a, b models.Candidate) int {
		av, bv := a.Value(col), b.Value(col)
		switch {
		case !av.Valid && !bv.Valid:
			return 0
		case !av.Valid:
			return 1
		case !bv.Valid:
			return -1
		}
		return strings.Compare(av.String, bv.String)
	})
	return out, nil
}
