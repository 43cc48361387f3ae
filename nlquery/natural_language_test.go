package nlquery

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/nonsonwune/hirehub/filter"
	"github.com/nonsonwune/hirehub/models"
	"github.com/nonsonwune/hirehub/nlquery/prompts"
	"github.com/nonsonwune/hirehub/sorter"
)

type fakeGenerator struct {
	resp    *genai.GenerateContentResponse
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if text, ok := p.(genai.Text); ok {
			f.prompts = append(f.prompts, string(text))
		}
	}
	return f.resp, f.err
}

func callResponse(args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.FunctionCall{Name: FunctionName, Args: args}},
			},
		}},
	}
}

// scripted returns a factory that hands out gens in order and records keys.
func scripted(keys *[]string, gens ...*fakeGenerator) ModelFactory {
	i := 0
	return func(_ context.Context, apiKey string) (Generator, func() error, error) {
		*keys = append(*keys, apiKey)
		g := gens[min(i, len(gens)-1)]
		i++
		return g, func() error { return nil }, nil
	}
}

func newTestTranslator(t *testing.T, factory ModelFactory, values *prompts.ValueMatcher, keys ...string) (*Translator, *[]time.Duration) {
	t.Helper()
	tr, err := NewTranslator(NewKeyManager(keys), factory, values)
	require.NoError(t, err)
	var waits []time.Duration
	tr.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return tr, &waits
}

func TestNewTranslatorRequiresKey(t *testing.T) {
	_, err := NewTranslator(NewKeyManager(nil), nil, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestTranslate(t *testing.T) {
	var used []string
	gen := &fakeGenerator{resp: callResponse(map[string]any{
		"college":  "MIT, Stanford",
		"skills":   []any{"python", "sql"},
		"position": "",
		"sort":     "skills_count",
	})}
	tr, waits := newTestTranslator(t, scripted(&used, gen), nil, "k1")

	q, err := tr.Translate(context.Background(), "python and sql people from MIT or Stanford")
	require.NoError(t, err)

	assert.Equal(t, filter.Spec{College: "MIT, Stanford", Skills: []string{"python", "sql"}}, q.Spec)
	assert.Equal(t, sorter.KeySkillsCount, q.Sort)
	assert.Empty(t, *waits)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Question: python and sql people from MIT or Stanford")
}

func TestTranslateEmptyQuestion(t *testing.T) {
	var used []string
	tr, _ := newTestTranslator(t, scripted(&used, &fakeGenerator{}), nil, "k1")
	_, err := tr.Translate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, used)
}

func TestTranslateRateLimitRotatesKeys(t *testing.T) {
	var used []string
	limited := &fakeGenerator{err: &googleapi.Error{Code: http.StatusTooManyRequests, Message: "slow down"}}
	ok := &fakeGenerator{resp: callResponse(map[string]any{"company": "Acme"})}
	tr, waits := newTestTranslator(t, scripted(&used, limited, ok), nil, "k1", "k2")

	q, err := tr.Translate(context.Background(), "people at acme")
	require.NoError(t, err)

	assert.Equal(t, "Acme", q.Spec.Company)
	assert.Equal(t, []string{"k1", "k2"}, used)
	assert.Equal(t, []time.Duration{time.Second}, *waits)
}

func TestTranslateAllAttemptsFail(t *testing.T) {
	var used []string
	bad := &fakeGenerator{err: errors.New("boom")}
	tr, waits := newTestTranslator(t, scripted(&used, bad), nil, "k1")

	_, err := tr.Translate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all attempts failed")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *waits)
	assert.Len(t, used, 3)
}

func TestTranslateTextOnlyResponse(t *testing.T) {
	var used []string
	text := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("SELECT * FROM x")}}}},
	}}
	tr, _ := newTestTranslator(t, scripted(&used, text), nil, "k1")

	_, err := tr.Translate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoFilter)
}

func TestQueryFromArgs(t *testing.T) {
	tr, _ := newTestTranslator(t, nil, nil, "k1")

	tests := []struct {
		name string
		args map[string]any
		want Query
	}{
		{"empty", map[string]any{}, Query{}},
		{"skills as string", map[string]any{"skills": "go, , rust"}, Query{Spec: filter.Spec{Skills: []string{"go", "rust"}}}},
		{"list as array", map[string]any{"degree": []any{"BSc", " MSc "}}, Query{Spec: filter.Spec{Degree: "BSc, MSc"}}},
		{"bad sort ignored", map[string]any{"field": "Physics", "sort": "salary"}, Query{Spec: filter.Spec{Field: "Physics"}}},
		{"sort case", map[string]any{"sort": "Name"}, Query{Sort: sorter.KeyName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.queryFromArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateCanonicalValues(t *testing.T) {
	values := prompts.NewValueMatcher()
	values.Load(models.ResultSet{
		models.NewCandidate("Ann", "go", "MIT", "BSc", "Computer Science", "Acme", "Engineer"),
	})

	var used []string
	gen := &fakeGenerator{resp: callResponse(map[string]any{"field": "computer science, Biology"})}
	tr, _ := newTestTranslator(t, scripted(&used, gen), values, "k1")

	q, err := tr.Translate(context.Background(), "computer science graduates")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science, Biology", q.Spec.Field)
	assert.Contains(t, gen.prompts[0], "field: Computer Science")
}

func TestIsRateLimitError(t *testing.T) {
	assert.True(t, isRateLimitError(&googleapi.Error{Code: 429}))
	assert.True(t, isRateLimitError(errors.New("rpc error: code = ResourceExhausted desc = quota")))
	assert.True(t, isRateLimitError(errors.New("Quota exceeded for project")))
	assert.False(t, isRateLimitError(&googleapi.Error{Code: 500}))
	assert.False(t, isRateLimitError(errors.New("connection reset")))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "all candidates", Describe(Query{}))
	assert.Equal(t, "college: MIT | skills: go AND sql | sort: name",
		Describe(Query{Spec: filter.Spec{College: "MIT", Skills: []string{"go", "sql"}}, Sort: sorter.KeyName}))
}

func TestFilterFunctionSortEnum(t *testing.T) {
	sortSchema := FilterFunction.Parameters.Properties["sort"]
	assert.Contains(t, sortSchema.Enum, "skills_count")
	assert.Len(t, sortSchema.Enum, len(sorter.Options()))
}
