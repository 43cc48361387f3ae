package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/hirehub/models"
)

func rows() models.ResultSet {
	return models.ResultSet{
		models.NewCandidate("Carol", "go", "MIT", "PhD", "Math", "Initech", "Researcher"),
		{Name: models.Text("Nobody"), Skills: models.Text("a, b, c, d")},
		models.NewCandidate("alice", "python, sql, go", "CMU", "BSc", "CS", "Acme", "Engineer"),
		models.NewCandidate("Bob", "java, sql", "MIT", "MSc", "CS", "Globex", "Analyst"),
	}
}

func TestSortByColumn(t *testing.T) {
	in := rows()
	out, err := Sort(in, KeyCollege)
	require.NoError(t, err)

	// MIT ties keep input order, NULL college last.
	assert.Equal(t, []string{"alice", "Carol", "Bob", "Nobody"}, out.Names())
	assert.Equal(t, []string{"Carol", "Nobody", "alice", "Bob"}, in.Names(), "input must not be reordered")

	out, err = Sort(in, KeyName)
	require.NoError(t, err)
	// byte order puts upper case first
	assert.Equal(t, []string{"Bob", "Carol", "Nobody", "alice"}, out.Names())
}

func TestSortNonDecreasing(t *testing.T) {
	for _, key := range []Key{KeyName, KeyCollege, KeyDegree, KeyField, KeyCompany, KeyPosition} {
		out, err := Sort(rows(), key)
		require.NoError(t, err)
		require.Len(t, out, 4)

		col := models.Column(key)
		for i := 1; i < len(out); i++ {
			prev, cur := out[i-1].Value(col), out[i].Value(col)
			if !cur.Valid {
				continue
			}
			require.True(t, prev.Valid, "NULL before a value for %s", key)
			assert.LessOrEqual(t, prev.String, cur.String, key)
		}
	}
}

func TestSortBySkillsCount(t *testing.T) {
	out, err := Sort(rows(), KeySkillsCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nobody", "alice", "Bob", "Carol"}, out.Names())

	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t,
			SkillCount(out[i-1].Get(models.ColumnSkills)),
			SkillCount(out[i].Get(models.ColumnSkills)))
	}
	// shape is unchanged: same records, same fields
	assert.ElementsMatch(t, rows(), out)
}

func TestSortInvalidKey(t *testing.T) {
	in := rows()
	for _, key := range []Key{"salary", "skills", ""} {
		out, err := Sort(in, key)
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.Equal(t, in, out)
	}
}

func TestSkillCount(t *testing.T) {
	assert.Equal(t, 0, SkillCount(""))
	assert.Equal(t, 2, SkillCount("python, , sql,"))
	assert.Equal(t, 1, SkillCount("  go "))
}

func TestKeyForChoice(t *testing.T) {
	k, err := KeyForChoice("1")
	require.NoError(t, err)
	assert.Equal(t, KeyName, k)

	k, err = KeyForChoice(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, KeySkillsCount, k)

	for _, bad := range []string{"0", "8", "x", ""} {
		_, err := KeyForChoice(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Skills_Count")
	require.NoError(t, err)
	assert.Equal(t, KeySkillsCount, k)

	_, err = ParseKey("skills")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestOptionsAreACopy(t *testing.T) {
	opts := Options()
	require.Len(t, opts, 7)
	opts[0].Label = "changed"
	assert.Equal(t, "Name (A→Z)", Options()[0].Label)
}
