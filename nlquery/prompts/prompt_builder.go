package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nonsonwune/hirehub/models"
)

// PromptBuilder handles the construction of prompts for the LLM
type PromptBuilder struct {
	examples string
	values   *ValueMatcher
}

// NewPromptBuilder creates a PromptBuilder. values may be nil.
func NewPromptBuilder(values *ValueMatcher) *PromptBuilder {
	return &PromptBuilder{
		examples: QueryExamples,
		values:   values,
	}
}

// BuildFilterPrompt creates the user prompt for one question.
func (pb *PromptBuilder) BuildFilterPrompt(question string) string {
	var b strings.Builder
	b.WriteString(pb.examples)
	b.WriteString("\n\n")

	if hints := pb.hints(question); hints != "" {
		b.WriteString("Values that exist in the table and relate to the question:\n")
		b.WriteString(hints)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Question: %s", strings.TrimSpace(question))
	return b.String()
}

func (pb *PromptBuilder) hints(question string) string {
	if pb.values == nil {
		return ""
	}
	found := pb.values.Hints(question)
	if len(found) == 0 {
		return ""
	}

	var b strings.Builder
	for _, col := range models.StoreColumns {
		vals := found[col]
		if len(vals) == 0 {
			continue
		}
		sort.Strings(vals)
		fmt.Fprintf(&b, "  - %s: %s\n", col, strings.Join(vals, "; "))
	}
	return b.String()
}
