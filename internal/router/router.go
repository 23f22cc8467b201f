package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/auth"
	"github.com/saulo-duarte/quizzer/internal/config"
	"github.com/saulo-duarte/quizzer/internal/middlewares"
	"github.com/saulo-duarte/quizzer/internal/quiz"
)

type RouterConfig struct {
	AIQuizHandler      *aiquiz.Handler
	QuizHandler        *quiz.Handler
	CORSAllowedOrigins []string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"status":  "ok",
		})
	})

	r.Route("/api/quiz", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/hint", aiquiz.Routes(cfg.AIQuizHandler))
		r.Mount("/", quiz.Routes(cfg.QuizHandler))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		config.Fail(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		config.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
