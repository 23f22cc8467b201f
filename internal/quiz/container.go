package quiz

import (
	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/notification"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Handler *Handler
	Service QuizService
	Repo    QuizRepository
}

func NewQuizContainer(db *gorm.DB, ai aiquiz.Service, notifier notification.Dispatcher) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(repo, ai, notifier)
	handler := NewHandler(service)

	return &QuizContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
