package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/auth"
	"github.com/saulo-duarte/quizzer/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	user, ok := identity(w, r)
	if !ok {
		return
	}

	var req GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid generate request body")
		config.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.service.GenerateQuiz(r.Context(), user, req)
	if err != nil {
		writeError(w, r, err, "Failed to generate quiz")
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quiz":    quiz,
	})
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	user, ok := identity(w, r)
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid submit request body")
		config.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.SubmitQuiz(r.Context(), user, req)
	if err != nil {
		writeError(w, r, err, "Failed to submit quiz")
		return
	}

	config.JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*SubmitResult
	}{Success: true, SubmitResult: result})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}

	filter, err := ParseHistoryFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err, "Failed to fetch quiz history")
		return
	}

	quizzes, err := h.service.History(r.Context(), user, filter)
	if err != nil {
		writeError(w, r, err, "Failed to fetch quiz history")
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": quizzes,
	})
}

func (h *Handler) RetryQuiz(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}

	quiz, err := h.service.RetryQuiz(r.Context(), user, chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, r, err, "Failed to create retry quiz")
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quiz":    quiz,
	})
}

func identity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("Request without user claims")
		config.Fail(w, http.StatusUnauthorized, "authentication required")
		return Identity{}, false
	}
	return Identity{Username: claims.Username, Email: claims.Email}, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	log := config.WithContext(r.Context())

	switch {
	case errors.Is(err, ErrInvalidRequest):
		config.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrQuizNotFound):
		config.Fail(w, http.StatusNotFound, "Quiz not found")
	case errors.Is(err, ErrSubmissionConflict):
		config.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, aiquiz.ErrGeneration):
		log.WithError(err).Error(action)
		config.Fail(w, http.StatusInternalServerError, action+": "+err.Error())
	default:
		log.WithError(err).Error(action)
		config.Fail(w, http.StatusInternalServerError, action)
	}
}
