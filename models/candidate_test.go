package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumn(t *testing.T) {
	tests := []struct {
		input   string
		want    Column
		wantErr bool
	}{
		{"name", ColumnName, false},
		{"  College ", ColumnCollege, false},
		{"POSITION", ColumnPosition, false},
		{"salary", "", true},
		{"", "", true},
		{"name; DROP TABLE x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColumn(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnMutable(t *testing.T) {
	assert.False(t, ColumnName.Mutable())
	for _, c := range []Column{ColumnSkills, ColumnCollege, ColumnDegree, ColumnField, ColumnCompany, ColumnPosition} {
		assert.True(t, c.Mutable(), c)
	}
	assert.False(t, Column("id").Mutable())
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "Name", ColumnName.Label())
	assert.Equal(t, "Skills", ColumnSkills.Label())
	assert.Equal(t, "", Column("").Label())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"python", "sql"}, SplitList("python, sql"))
	assert.Equal(t, []string{"go"}, SplitList(" , go ,, "))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}

func TestCandidateAccessors(t *testing.T) {
	c := NewCandidate("Alice Rao", "python, sql", "MIT", "BSc", "CS", "Acme", "Engineer")
	assert.Equal(t, "MIT", c.Get(ColumnCollege))
	assert.Equal(t, []string{"python", "sql"}, c.SkillTokens())

	c.Set(ColumnCompany, sql.NullString{})
	assert.Equal(t, "", c.Get(ColumnCompany))
	assert.False(t, c.Value(ColumnCompany).Valid)

	args := c.Args()
	require.Len(t, args, len(StoreColumns))
	assert.Equal(t, Text("Alice Rao"), args[0])
	assert.Equal(t, Text("python, sql"), args[1])
}

func TestResultSetClone(t *testing.T) {
	rs := ResultSet{NewCandidate("a", "", "", "", "", "", ""), NewCandidate("b", "", "", "", "", "", "")}
	cp := rs.Clone()
	cp[0], cp[1] = cp[1], cp[0]
	assert.Equal(t, []string{"a", "b"}, rs.Names())
	assert.Equal(t, []string{"b", "a"}, cp.Names())
	assert.Nil(t, ResultSet(nil).Clone())
	assert.True(t, ResultSet{}.Empty())
}
