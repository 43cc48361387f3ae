package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonsonwune/hirehub/models"
)

func loadedMatcher() *ValueMatcher {
	vm := NewValueMatcher()
	vm.Load(models.ResultSet{
		models.NewCandidate("Ann", "go", "MIT", "BSc", "Computer Science", "Acme", "Engineer"),
		models.NewCandidate("Bo", "", "Stanford", "MSc", "Mechanical Engineering", "Globex", "Analyst"),
		models.NewCandidate("Cy", "", "mit", "PhD", "Biology", "", ""),
		{Name: models.Text("Dee")},
	})
	return vm
}

func TestValueMatcherLoad(t *testing.T) {
	vm := loadedMatcher()
	// MIT/mit collapse to one value; NULLs and blanks are skipped.
	assert.Equal(t, 12, vm.Len())
}

func TestValueMatcherCanonical(t *testing.T) {
	vm := loadedMatcher()
	assert.Equal(t, "Computer Science", vm.Canonical(models.ColumnField, " computer science "))
	assert.Equal(t, "MIT", vm.Canonical(models.ColumnCollege, "Mit"))
	assert.Equal(t, "Physics", vm.Canonical(models.ColumnField, "Physics"))
	assert.Equal(t, "acme", vm.Canonical(models.ColumnField, "acme"))
}

func TestValueMatcherHints(t *testing.T) {
	vm := loadedMatcher()

	hints := vm.Hints("analysts from stanford")
	assert.Equal(t, []string{"Stanford"}, hints[models.ColumnCollege])
	assert.Equal(t, []string{"Analyst"}, hints[models.ColumnPosition])

	hints = vm.Hints("anyone with an engineering background")
	assert.ElementsMatch(t, []string{"Mechanical Engineering"}, hints[models.ColumnField])

	assert.Empty(t, vm.Hints("zzz"))
}

func TestBuildFilterPrompt(t *testing.T) {
	pb := NewPromptBuilder(loadedMatcher())
	p := pb.BuildFilterPrompt("  biology people  ")
	assert.Contains(t, p, QueryExamples)
	assert.Contains(t, p, "field: Biology")
	assert.Contains(t, p, "Question: biology people")

	p = NewPromptBuilder(nil).BuildFilterPrompt("x")
	assert.NotContains(t, p, "Values that exist")
}
