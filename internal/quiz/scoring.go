package quiz

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var answerLetter = regexp.MustCompile(`^[A-Da-d]`)

// NormalizeAnswer reduces an answer to its option letter when it starts with
// one (A-D, any case). Anything else is compared uppercased as-is.
func NormalizeAnswer(answer string) string {
	if m := answerLetter.FindString(answer); m != "" {
		return strings.ToUpper(m)
	}
	return strings.ToUpper(answer)
}

// Score grades responses against the quiz. Each question is worth
// maxScore/len(questions); the total is computed once from the number of
// correct answers and rounded half-up to cents. Responses
// naming unknown questions, or the same question twice, are rejected.
func Score(q *Quiz, responses []ResponseInput) (float64, []EvaluatedResponse, error) {
	if len(q.Questions) == 0 {
		return 0, nil, fmt.Errorf("%w: quiz has no questions", ErrInvalidRequest)
	}

	byID := lo.KeyBy(q.Questions, func(qq QuizQuestion) string {
		return qq.QuestionID
	})

	correctCount := 0
	seen := make(map[string]struct{}, len(responses))
	evaluated := make([]EvaluatedResponse, 0, len(responses))

	for i, r := range responses {
		question, ok := byID[r.QuestionID]
		if !ok {
			return 0, nil, fmt.Errorf("%w: %w: %s", ErrInvalidRequest, ErrQuestionNotFound, r.QuestionID)
		}
		if _, dup := seen[r.QuestionID]; dup {
			return 0, nil, fmt.Errorf("%w: %w: %s", ErrInvalidRequest, ErrDuplicateResponse, r.QuestionID)
		}
		seen[r.QuestionID] = struct{}{}

		userNorm := NormalizeAnswer(r.UserResponse)
		correctNorm := NormalizeAnswer(question.CorrectAnswer)
		correct := userNorm == correctNorm
		if correct {
			correctCount++
		}

		evaluated = append(evaluated, EvaluatedResponse{
			ID:                      uuid.New(),
			OrderIndex:              i,
			QuestionID:              r.QuestionID,
			UserResponse:            r.UserResponse,
			IsCorrect:               correct,
			UserAnswer:              r.UserResponse,
			CorrectAnswer:           question.CorrectAnswer,
			NormalizedUserAnswer:    userNorm,
			NormalizedCorrectAnswer: correctNorm,
		})
	}

	score := decimal.NewFromFloat(q.MaxScore).
		Mul(decimal.NewFromInt(int64(correctCount))).
		Div(decimal.NewFromInt(int64(len(q.Questions)))).
		Round(2)
	return score.InexactFloat64(), evaluated, nil
}
