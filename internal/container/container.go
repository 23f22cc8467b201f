package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/auth"
	"github.com/saulo-duarte/quizzer/internal/config"
	"github.com/saulo-duarte/quizzer/internal/notification"
	"github.com/saulo-duarte/quizzer/internal/quiz"
	"github.com/saulo-duarte/quizzer/internal/router"
)

type Container struct {
	Settings        *config.Settings
	AIQuizContainer *aiquiz.AIQuizContainer
	QuizContainer   *quiz.QuizContainer
	Router          http.Handler
}

func New(ctx context.Context, settings *config.Settings) (*Container, error) {
	config.InitLogger(settings.Log.Level)

	if settings.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	auth.Init(settings.JWT.Secret)

	if err := config.Connect(ctx, settings.Database.DSN); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := quiz.Migrate(config.DB); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	aiQuizContainer, err := aiquiz.NewAIQuizContainer(ctx, settings)
	if err != nil {
		return nil, err
	}

	notifier, err := notification.NewDispatcherFromSettings(settings)
	if err != nil {
		return nil, fmt.Errorf("notification: %w", err)
	}
	if settings.SendGrid.APIKey == "" {
		config.Logger.Warn("SENDGRID_API_KEY not set, result emails are disabled")
	}

	quizContainer := quiz.NewQuizContainer(config.DB, aiQuizContainer.Service, notifier)

	return &Container{
		Settings:        settings,
		AIQuizContainer: aiQuizContainer,
		QuizContainer:   quizContainer,
		Router: router.New(router.RouterConfig{
			AIQuizHandler:      aiQuizContainer.Handler,
			QuizHandler:        quizContainer.Handler,
			CORSAllowedOrigins: settings.Server.CORSAllowedOrigins,
		}),
	}, nil
}
