package aiquiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/quizzer/internal/config"
)

// ErrGeneration covers every way an upstream generation can fail: transport
// errors, empty replies and content that does not match the expected shape.
var ErrGeneration = errors.New("ai generation failed")

type Service interface {
	GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error)
	GenerateHint(ctx context.Context, req HintRequest) (string, error)
	GenerateSuggestions(ctx context.Context, summary PerformanceSummary) []string
}

type service struct {
	provider Provider
	hints    HintCache
}

// NewService wires the provider. hints may be nil to disable hint caching.
func NewService(provider Provider, hints HintCache) Service {
	return &service{provider: provider, hints: hints}
}

func (s *service) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error) {
	log := config.WithContext(ctx)

	raw, err := s.provider.Complete(ctx, BuildQuestionsPrompt(req), CompletionOptions{
		Temperature: questionsTemperature,
		MaxTokens:   questionsMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	questions, err := ParseQuestions(raw)
	if err != nil {
		log.WithError(err).Errorf("[AIQUIZ] Failed to parse questions. Raw reply:\n%s", raw)
		return nil, fmt.Errorf("%w: failed to parse AI response: %v", ErrGeneration, err)
	}

	log.Infof("[AIQUIZ] Generated %d questions (requested %d)", len(questions), req.Count)
	return questions, nil
}

func (s *service) GenerateHint(ctx context.Context, req HintRequest) (string, error) {
	log := config.WithContext(ctx)

	key := hintCacheKey(req)
	if s.hints != nil {
		hint, ok, err := s.hints.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("Hint cache lookup failed")
		} else if ok {
			log.Debug("Hint served from cache")
			return hint, nil
		}
	}

	raw, err := s.provider.Complete(ctx, BuildHintPrompt(req), CompletionOptions{
		Temperature: hintTemperature,
		MaxTokens:   hintMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	hint := strings.TrimSpace(raw)
	if hint == "" {
		return "", fmt.Errorf("%w: empty hint", ErrGeneration)
	}

	if s.hints != nil {
		if err := s.hints.Set(ctx, key, hint); err != nil {
			log.WithError(err).Warn("Hint cache store failed")
		}
	}
	return hint, nil
}

// GenerateSuggestions never fails: upstream errors fall back to fixed advice.
func (s *service) GenerateSuggestions(ctx context.Context, summary PerformanceSummary) []string {
	log := config.WithContext(ctx)

	raw, err := s.provider.Complete(ctx, BuildSuggestionsPrompt(summary), CompletionOptions{
		Temperature: suggestionsTemperature,
		MaxTokens:   suggestionsMaxTokens,
	})
	if err != nil {
		log.WithError(err).Warn("Suggestion generation failed, using defaults")
		return []string{upstreamFallbackSuggestions[0], upstreamFallbackSuggestions[1]}
	}

	return ParseSuggestions(raw)
}
