package aiquiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/quizzer/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultGroqModel   = "llama-3.1-8b-instant"
)

type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

// Provider sends a single prompt to a text-generation model and returns the raw reply.
type Provider interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// NewProvider picks the backend named in settings ("gemini" or "groq").
func NewProvider(ctx context.Context, settings *config.Settings) (Provider, error) {
	switch settings.AI.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, settings.AI.GeminiAPIKey, settings.AI.Model)
	case "groq", "":
		return NewGroqProvider(settings.AI.GroqAPIKey, settings.AI.GroqBaseURL, settings.AI.Model)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", settings.AI.Provider)
	}
}

type geminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a Gemini client. An empty apiKey lets the SDK fall
// back to GOOGLE_API_KEY / GEMINI_API_KEY.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (Provider, error) {
	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	log := config.WithContext(ctx)

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	raw := result.Text()
	log.Debugf("[AIQUIZ] Raw Gemini reply:\n%s", raw)
	return raw, nil
}

type groqProvider struct {
	llm llms.Model
}

// NewGroqProvider talks to Groq through its OpenAI-compatible endpoint.
func NewGroqProvider(apiKey, baseURL, model string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New("missing GROQ_API_KEY")
	}
	if model == "" {
		model = defaultGroqModel
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create Groq client: %w", err)
	}
	return &groqProvider{llm: llm}, nil
}

func (p *groqProvider) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	log := config.WithContext(ctx)

	callOpts := []llms.CallOption{llms.WithTemperature(float64(opts.Temperature))}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	raw, err := llms.GenerateFromSinglePrompt(ctx, p.llm, prompt, callOpts...)
	if err != nil {
		log.WithError(err).Error("Groq completion failed")
		return "", fmt.Errorf("groq completion: %w", err)
	}

	log.Debugf("[AIQUIZ] Raw Groq reply:\n%s", raw)
	return raw, nil
}
