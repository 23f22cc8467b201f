package quiz

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/quizzer/internal/utils"
	"github.com/samber/lo"
	"gorm.io/datatypes"
)

// Identity is the caller as established by the auth middleware.
type Identity struct {
	Username string
	Email    string
}

type GenerateQuizRequest struct {
	Grade          int     `json:"grade" validate:"required,min=1,max=12"`
	Subject        string  `json:"subject" validate:"required,max=100"`
	TotalQuestions int     `json:"totalQuestions" validate:"required,min=1,max=20"`
	MaxScore       float64 `json:"maxScore" validate:"required,gt=0"`
	Difficulty     string  `json:"difficulty" validate:"required,max=32"`
}

type ResponseInput struct {
	QuestionID   string `json:"questionId" validate:"required"`
	UserResponse string `json:"userResponse" validate:"max=1000"`
}

type SubmitQuizRequest struct {
	QuizID    string          `json:"quizId" validate:"required,uuid"`
	Responses []ResponseInput `json:"responses" validate:"dive"`
}

type SubmitResult struct {
	Score          float64     `json:"score"`
	TotalQuestions int         `json:"totalQuestions"`
	MaxScore       float64     `json:"maxScore"`
	Submission     *Submission `json:"submission"`
	Suggestions    []string    `json:"suggestions"`
	EmailSent      bool        `json:"emailSent"`
}

type HistoryFilter struct {
	Grade      *int
	Subject    string
	Difficulty string
	From       *time.Time
	To         *time.Time
	MinScore   *float64
}

// ClientQuestion is a question as shown to the learner. CorrectAnswer is only
// filled once the quiz has been graded.
type ClientQuestion struct {
	QuestionID    string         `json:"questionId"`
	Question      string         `json:"question"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer string         `json:"correctAnswer,omitempty"`
}

type ClientQuiz struct {
	ID             uuid.UUID        `json:"quizId"`
	Username       string           `json:"username"`
	Grade          int              `json:"grade"`
	Subject        string           `json:"subject"`
	Difficulty     string           `json:"difficulty"`
	MaxScore       float64          `json:"maxScore"`
	IsCompleted    bool             `json:"isCompleted"`
	OriginalQuizID *uuid.UUID       `json:"originalQuizId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Questions      []ClientQuestion `json:"questions"`
	Submissions    []Submission     `json:"submissions"`
}

// ToClientQuiz never includes correct answers.
func ToClientQuiz(q *Quiz) *ClientQuiz {
	return toClientQuiz(q, false)
}

// ToHistoryQuiz reveals correct answers only for completed quizzes.
func ToHistoryQuiz(q *Quiz) *ClientQuiz {
	return toClientQuiz(q, q.IsCompleted)
}

func toClientQuiz(q *Quiz, withAnswers bool) *ClientQuiz {
	submissions := q.Submissions
	if submissions == nil {
		submissions = []Submission{}
	}
	return &ClientQuiz{
		ID:             q.ID,
		Username:       q.Username,
		Grade:          q.Grade,
		Subject:        q.Subject,
		Difficulty:     q.Difficulty,
		MaxScore:       q.MaxScore,
		IsCompleted:    q.IsCompleted,
		OriginalQuizID: q.OriginalQuizID,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
		Questions: lo.Map(q.Questions, func(qq QuizQuestion, _ int) ClientQuestion {
			cq := ClientQuestion{
				QuestionID: qq.QuestionID,
				Question:   qq.Question,
				Options:    qq.Options,
			}
			if withAnswers {
				cq.CorrectAnswer = qq.CorrectAnswer
			}
			return cq
		}),
		Submissions: submissions,
	}
}

// ParseHistoryFilter reads the optional history query parameters. Empty
// values are ignored; malformed ones are reported as ErrInvalidRequest.
func ParseHistoryFilter(values url.Values) (HistoryFilter, error) {
	var f HistoryFilter

	if v := strings.TrimSpace(values.Get("grade")); v != "" {
		grade, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%w: grade must be an integer", ErrInvalidRequest)
		}
		f.Grade = &grade
	}

	f.Subject = strings.TrimSpace(values.Get("subject"))
	f.Difficulty = strings.TrimSpace(values.Get("difficulty"))

	if v := strings.TrimSpace(values.Get("from")); v != "" {
		from, err := util.ParseDateParam(v, false)
		if err != nil {
			return f, fmt.Errorf("%w: from: %v", ErrInvalidRequest, err)
		}
		f.From = &from
	}
	if v := strings.TrimSpace(values.Get("to")); v != "" {
		to, err := util.ParseDateParam(v, true)
		if err != nil {
			return f, fmt.Errorf("%w: to: %v", ErrInvalidRequest, err)
		}
		f.To = &to
	}

	if v := strings.TrimSpace(values.Get("minScore")); v != "" {
		minScore, err := strconv.ParseFloat(v, 64)
		if err != nil || minScore != minScore {
			return f, fmt.Errorf("%w: minScore must be a number", ErrInvalidRequest)
		}
		f.MinScore = &minScore
	}

	return f, nil
}
