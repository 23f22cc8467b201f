package aiquiz

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/quizzer/internal/config"
	"github.com/saulo-duarte/quizzer/internal/validation"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Hint(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req HintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid hint request body")
		config.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		config.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	hint, err := h.service.GenerateHint(r.Context(), req)
	if err != nil {
		log.WithError(err).Error("Hint generation error")
		config.Fail(w, http.StatusInternalServerError, "Failed to generate hint: "+err.Error())
		return
	}

	config.JSON(w, http.StatusOK, HintResponse{
		Success:    true,
		Hint:       hint,
		QuestionID: req.QuestionID,
	})
}
