package aiquiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

const questionsSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question", "options", "correctAnswer"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "options": {"type": "array", "minItems": 1, "items": {"type": "string"}},
      "correctAnswer": {"type": "string", "minLength": 1}
    }
  }
}`

const suggestionsSchemaJSON = `{
  "type": "array",
  "items": {"type": "string"}
}`

var (
	questionsSchema   = mustSchema(questionsSchemaJSON)
	suggestionsSchema = mustSchema(suggestionsSchemaJSON)

	errNoJSONArray = errors.New("reply contains no JSON array")
)

var (
	parseFallbackSuggestions    = [2]string{"Review the fundamental concepts of this topic", "Practice more problems in this subject area"}
	upstreamFallbackSuggestions = [2]string{"Practice more problems in this subject area", "Review the fundamental concepts of this topic"}
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return schema
}

// extractJSONArray returns the text between the first '[' and the last ']'.
func extractJSONArray(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return "", errNoJSONArray
	}
	return raw[start : end+1], nil
}

func validateAgainst(schema *gojsonschema.Schema, doc string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// ParseQuestions turns a model reply into questions with fresh ids. Only the
// declared fields survive; anything else the model added is dropped.
func ParseQuestions(raw string) ([]Question, error) {
	doc, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(questionsSchema, doc); err != nil {
		return nil, err
	}

	var items []rawQuestion
	if err := json.Unmarshal([]byte(doc), &items); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]Question, 0, len(items))
	for _, item := range items {
		questions = append(questions, Question{
			ID:            uuid.NewString(),
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
		})
	}
	return questions, nil
}

// ParseSuggestions always yields exactly two suggestions: a JSON array of
// strings if the reply is one, otherwise the first two sentences of the text.
func ParseSuggestions(raw string) []string {
	clean := stripCodeFence(raw)
	if validateAgainst(suggestionsSchema, clean) == nil {
		var items []string
		if err := json.Unmarshal([]byte(clean), &items); err == nil {
			return padSuggestions(nonEmpty(items))
		}
	}
	return padSuggestions(splitSentences(clean))
}

func stripCodeFence(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '.'
	})
	return nonEmpty(parts)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func padSuggestions(items []string) []string {
	out := make([]string, 2)
	for i := range out {
		if i < len(items) {
			out[i] = items[i]
		} else {
			out[i] = parseFallbackSuggestions[i]
		}
	}
	return out
}
