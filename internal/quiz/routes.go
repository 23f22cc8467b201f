package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes expects to be mounted behind the auth middleware.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/generate", h.GenerateQuiz)
	r.Post("/submit", h.SubmitQuiz)
	r.Get("/history", h.History)
	r.Get("/retry/{quizId}", h.RetryQuiz)

	return r
}
