// Package nlquery turns a plain-language question into a candidate filter.
//
// The question goes to Gemini together with a single function declaration,
// filter_candidates. The model is forced to call it, and the call arguments
// become a filter.Spec and an optional sort key. No SQL is ever generated.
package nlquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/nonsonwune/hirehub/filter"
	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/models"
	"github.com/nonsonwune/hirehub/nlquery/prompts"
	"github.com/nonsonwune/hirehub/sorter"
)

// FunctionName is the only function the model may call.
const FunctionName = "filter_candidates"

const requestTimeout = 45 * time.Second

var (
	ErrNoAPIKey   = errors.New("no Gemini API key configured")
	ErrNoFilter   = errors.New("model did not return a candidate filter")
	ErrEmptyQuery = errors.New("question is empty")
)

// Query is a translated question.
type Query struct {
	Spec filter.Spec
	Sort sorter.Key // empty when the question asks for no particular order
}

// Generator is the part of *genai.GenerativeModel the translator needs.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ModelFactory opens a model for one API key. The returned func releases it.
type ModelFactory func(ctx context.Context, apiKey string) (Generator, func() error, error)

// Translator sends questions to the model, rotating keys on rate limits.
type Translator struct {
	keys    *KeyManager
	factory ModelFactory
	prompts *prompts.PromptBuilder
	values  *prompts.ValueMatcher
	backoff []time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewTranslator builds a translator. values may be nil; when set, returned
// filter values are mapped to the spelling stored in the table.
func NewTranslator(keys *KeyManager, factory ModelFactory, values *prompts.ValueMatcher) (*Translator, error) {
	if keys == nil || keys.Len() == 0 {
		return nil, ErrNoAPIKey
	}
	return &Translator{
		keys:    keys,
		factory: factory,
		prompts: prompts.NewPromptBuilder(values),
		values:  values,
		backoff: []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
		},
		sleep: sleepContext,
	}, nil
}

// Translate asks the model for a filter matching question.
func (t *Translator) Translate(ctx context.Context, question string) (Query, error) {
	if strings.TrimSpace(question) == "" {
		return Query{}, ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := t.prompts.BuildFilterPrompt(question)
	var lastErr error

	for i, wait := range t.backoff {
		if err := ctx.Err(); err != nil {
			return Query{}, err
		}

		key := t.keys.GetNextKey()
		q, err := t.attempt(ctx, key, prompt)
		if err == nil {
			return q, nil
		}
		lastErr = err

		if isRateLimitError(err) {
			t.keys.MarkKeyFailed(key)
			logger.Log.Warn("Gemini rate limit hit, rotating key", "attempt", i+1, "wait", wait)
		} else {
			logger.Log.Warn("Gemini attempt failed", "attempt", i+1, "error", err)
		}
		if err := t.sleep(ctx, wait); err != nil {
			return Query{}, err
		}
	}

	return Query{}, fmt.Errorf("all attempts failed, last error: %w", lastErr)
}

func (t *Translator) attempt(ctx context.Context, key, prompt string) (Query, error) {
	model, release, err := t.factory(ctx, key)
	if err != nil {
		return Query{}, err
	}
	defer release()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Query{}, err
	}
	args, err := functionArgs(resp)
	if err != nil {
		return Query{}, err
	}
	return t.queryFromArgs(args)
}

// functionArgs finds the filter_candidates call in resp.
func functionArgs(resp *genai.GenerateContentResponse) (map[string]any, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no response candidates", ErrNoFilter)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch fc := part.(type) {
			case genai.FunctionCall:
				if fc.Name == FunctionName {
					return fc.Args, nil
				}
			case *genai.FunctionCall:
				if fc != nil && fc.Name == FunctionName {
					return fc.Args, nil
				}
			}
		}
	}
	return nil, ErrNoFilter
}

func (t *Translator) queryFromArgs(args map[string]any) (Query, error) {
	var q Query
	q.Spec.Field = t.listArg(args, models.ColumnField)
	q.Spec.College = t.listArg(args, models.ColumnCollege)
	q.Spec.Degree = t.listArg(args, models.ColumnDegree)
	q.Spec.Company = t.listArg(args, models.ColumnCompany)
	q.Spec.Position = t.listArg(args, models.ColumnPosition)

	switch v := args[string(models.ColumnSkills)].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				q.Spec.Skills = append(q.Spec.Skills, filter.ParseSkills(s)...)
			}
		}
	case []string:
		for _, s := range v {
			q.Spec.Skills = append(q.Spec.Skills, filter.ParseSkills(s)...)
		}
	case string:
		q.Spec.Skills = filter.ParseSkills(v)
	}

	if raw, ok := args["sort"].(string); ok && strings.TrimSpace(raw) != "" {
		key, err := sorter.ParseKey(raw)
		if err != nil {
			logger.Log.Warn("ignoring sort key from model", "sort", raw)
		} else {
			q.Sort = key
		}
	}
	return q, nil
}

// listArg reads a comma-separated (or array) argument and rejoins it after
// mapping each value to its stored spelling.
func (t *Translator) listArg(args map[string]any, col models.Column) string {
	var values []string
	switch v := args[string(col)].(type) {
	case string:
		values = models.SplitList(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, models.SplitList(s)...)
			}
		}
	}
	if t.values != nil {
		for i, v := range values {
			values[i] = t.values.Canonical(col, v)
		}
	}
	return strings.Join(values, ", ")
}

// Describe renders q for display, e.g. `college: MIT | skills: python AND sql`.
func Describe(q Query) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("field", q.Spec.Field)
	add("college", q.Spec.College)
	add("degree", q.Spec.Degree)
	add("company", q.Spec.Company)
	add("position", q.Spec.Position)
	add("skills", strings.Join(q.Spec.Skills, " AND "))
	add("sort", string(q.Sort))
	if len(parts) == 0 {
		return "all candidates"
	}
	return strings.Join(parts, " | ")
}

// isRateLimitError reports whether err means the key is out of quota.
func isRateLimitError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "resourceexhausted") ||
		strings.Contains(msg, "429")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FilterFunction declares filter_candidates to the model.
var FilterFunction = &genai.FunctionDeclaration{
	Name:        FunctionName,
	Description: "Filter the candidates table. Every argument is optional; omitted arguments do not filter.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"field":    {Type: genai.TypeString, Description: "Field of study substrings, comma-separated alternatives."},
			"college":  {Type: genai.TypeString, Description: "College substrings, comma-separated alternatives."},
			"degree":   {Type: genai.TypeString, Description: "Degree substrings, comma-separated alternatives."},
			"company":  {Type: genai.TypeString, Description: "Company substrings, comma-separated alternatives."},
			"position": {Type: genai.TypeString, Description: "Job title substrings, comma-separated alternatives."},
			"skills": {
				Type:        genai.TypeArray,
				Description: "Skills that must all be present.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"sort": {
				Type:        genai.TypeString,
				Format:      "enum",
				Description: "Optional result order.",
				Enum:        sortKeys(),
			},
		},
	},
}

func sortKeys() []string {
	var keys []string
	for _, o := range sorter.Options() {
		keys = append(keys, string(o.Key))
	}
	return keys
}

// GeminiFactory opens modelName with a fresh client per key.
func GeminiFactory(modelName string) ModelFactory {
	return func(ctx context.Context, apiKey string) (Generator, func() error, error) {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing Gemini client: %w", err)
		}

		model := client.GenerativeModel(modelName)

		temp := float32(0.1)
		model.Temperature = &temp
		model.SystemInstruction = genai.NewUserContent(genai.Text(prompts.SchemaContext))
		model.Tools = []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{FilterFunction}}}
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: []string{FunctionName},
			},
		}
		model.SafetySettings = []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: genai.HarmBlockNone,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: genai.HarmBlockNone,
			},
		}

		return model, client.Close, nil
	}
}
