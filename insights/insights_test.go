package insights

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/hirehub/models"
)

func withCollege(c string) models.Candidate {
	return models.NewCandidate("n", "", c, "BSc", "CS", "", "")
}

func TestMostCommonOrderAndTies(t *testing.T) {
	rs := models.ResultSet{
		withCollege("CMU"),
		withCollege(" MIT "),
		withCollege("Stanford"),
		withCollege("MIT"),
		withCollege("Stanford"),
		withCollege("   "),
		{Name: models.Text("null college")},
	}

	got := MostCommon(rs, models.ColumnCollege, TopN)
	assert.Equal(t, []Count{
		{"MIT", 2},
		{"Stanford", 2},
		{"CMU", 1},
		{Unknown, 1},
	}, got)
}

func TestMostCommonTopN(t *testing.T) {
	var rs models.ResultSet
	for i := 0; i < 15; i++ {
		rs = append(rs, withCollege(string(rune('A'+i))))
	}
	got := MostCommon(rs, models.ColumnCollege, TopN)
	require.Len(t, got, TopN)
	assert.Equal(t, "A", got[0].Label)
	assert.Equal(t, "J", got[9].Label)
}

func TestSummarize(t *testing.T) {
	rs := models.ResultSet{
		models.NewCandidate("a", "", "MIT", "BSc", "CS", "", ""),
		models.NewCandidate("b", "", "MIT", "MSc", "CS", "", ""),
		models.NewCandidate("c", "", "CMU", "BSc", "Math", "", ""),
	}
	s := Summarize(rs)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, []Count{{"MIT", 2}, {"CMU", 1}}, s.Colleges)
	assert.Equal(t, []Count{{"BSc", 2}, {"MSc", 1}}, s.Degrees)
	assert.Equal(t, []Count{{"CS", 2}, {"Math", 1}}, s.Fields)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.3%", Percent(1, 3))
	assert.Equal(t, "66.7%", Percent(2, 3))
	assert.Equal(t, "100.0%", Percent(4, 4))
	assert.Equal(t, "0.0%", Percent(0, 0))
}

func TestDashboard(t *testing.T) {
	rs := models.ResultSet{
		models.NewCandidate("a", "", "MIT", "BSc", "CS", "", ""),
		models.NewCandidate("b", "", "MIT", "MSc", "CS", "", ""),
		models.NewCandidate("c", "", "CMU", "BSc", "Math", "", ""),
	}
	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, Summarize(rs)))

	out := buf.String()
	assert.Contains(t, out, "Top 10 Colleges (by candidate count)")
	assert.Contains(t, out, "Degree distribution (top 10)")
	assert.Contains(t, out, "Top 10 Fields of Study")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, strings.Repeat(barChar, barWidth))
	assert.Less(t, strings.Index(out, "Colleges"), strings.Index(out, "Degree distribution"))
	assert.Less(t, strings.Index(out, "Degree distribution"), strings.Index(out, "Fields of Study"))
}

func TestDashboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Dashboard(&buf, Summarize(nil))
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, "No data available for statistics.\n", buf.String())
}

func TestDashboardFailureKeepsEarlierCharts(t *testing.T) {
	rs := models.ResultSet{
		{Name: models.Text("a"), College: models.Text("MIT"), Degree: models.Text(" ")},
	}
	var buf bytes.Buffer
	err := Dashboard(&buf, Summarize(rs))
	assert.ErrorIs(t, err, ErrNoData)

	out := buf.String()
	assert.Contains(t, out, "Top 10 Colleges")
	assert.Contains(t, out, "Failed to generate charts.")
	assert.NotContains(t, out, "Fields of Study")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10))
	assert.Equal(t, barChar, bar(1, 1000))
	assert.Equal(t, strings.Repeat(barChar, 20), bar(5, 10))
}
