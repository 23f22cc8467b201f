package aiquiz

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/quizzer/internal/config"
)

type AIQuizContainer struct {
	Handler *Handler
	Service Service
}

func NewAIQuizContainer(ctx context.Context, settings *config.Settings) (*AIQuizContainer, error) {
	provider, err := NewProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("ai provider: %w", err)
	}

	var hints HintCache
	if settings.Redis.Addr != "" {
		hints, err = NewRedisHintCache(ctx, settings.Redis.Addr, settings.Redis.HintCacheTTL)
		if err != nil {
			config.WithContext(ctx).WithError(err).Warn("Hint cache disabled")
			hints = nil
		}
	}

	service := NewService(provider, hints)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Handler: handler,
		Service: service,
	}, nil
}
