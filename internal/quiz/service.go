package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/config"
	"github.com/saulo-duarte/quizzer/internal/notification"
	"github.com/saulo-duarte/quizzer/internal/validation"
	"github.com/samber/lo"
	"gorm.io/datatypes"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrSubmissionConflict = errors.New("quiz was modified by a concurrent submission")
	ErrQuestionNotFound   = errors.New("question does not belong to this quiz")
	ErrDuplicateResponse  = errors.New("question answered more than once")
)

type QuizService interface {
	GenerateQuiz(ctx context.Context, user Identity, req GenerateQuizRequest) (*ClientQuiz, error)
	SubmitQuiz(ctx context.Context, user Identity, req SubmitQuizRequest) (*SubmitResult, error)
	History(ctx context.Context, user Identity, filter HistoryFilter) ([]*ClientQuiz, error)
	RetryQuiz(ctx context.Context, user Identity, quizID string) (*ClientQuiz, error)
}

type quizService struct {
	repo     QuizRepository
	ai       aiquiz.Service
	notifier notification.Dispatcher
	now      func() time.Time
}

func NewService(repo QuizRepository, ai aiquiz.Service, notifier notification.Dispatcher) QuizService {
	return &quizService{
		repo:     repo,
		ai:       ai,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *quizService) GenerateQuiz(ctx context.Context, user Identity, req GenerateQuizRequest) (*ClientQuiz, error) {
	log := config.WithContext(ctx).WithField("username", user.Username)

	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	questions, err := s.ai.GenerateQuestions(ctx, aiquiz.QuestionRequest{
		Subject:    req.Subject,
		Grade:      req.Grade,
		Count:      req.TotalQuestions,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		log.WithError(err).Error("Question generation failed")
		return nil, err
	}

	quiz := &Quiz{
		ID:         uuid.New(),
		Username:   user.Username,
		Grade:      req.Grade,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		MaxScore:   req.MaxScore,
	}
	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, fmt.Errorf("encode options: %w", err)
		}
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			ID:            uuid.New(),
			QuestionID:    q.ID,
			Question:      q.Question,
			Options:       datatypes.JSON(options),
			CorrectAnswer: q.CorrectAnswer,
			OrderIndex:    i,
		})
	}

	if err := s.repo.Create(ctx, quiz); err != nil {
		log.WithError(err).Error("Failed to store quiz")
		return nil, fmt.Errorf("store quiz: %w", err)
	}

	log.WithField("quiz_id", quiz.ID.String()).Infof("Quiz created with %d questions", len(quiz.Questions))
	return ToClientQuiz(quiz), nil
}

func (s *quizService) SubmitQuiz(ctx context.Context, user Identity, req SubmitQuizRequest) (*SubmitResult, error) {
	log := config.WithContext(ctx).WithField("username", user.Username)

	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	quiz, err := s.loadOwnedQuiz(ctx, user, req.QuizID)
	if err != nil {
		return nil, err
	}
	log = log.WithField("quiz_id", quiz.ID.String())

	score, evaluated, err := Score(quiz, req.Responses)
	if err != nil {
		log.WithError(err).Warn("Submission rejected")
		return nil, err
	}

	sub := &Submission{
		ID:          uuid.New(),
		Score:       score,
		SubmittedAt: s.now().UTC(),
		Responses:   evaluated,
	}
	if err := s.repo.AppendSubmission(ctx, quiz, sub); err != nil {
		if errors.Is(err, ErrSubmissionConflict) {
			log.Warn("Concurrent submission detected")
			return nil, err
		}
		log.WithError(err).Error("Failed to store submission")
		return nil, fmt.Errorf("store submission: %w", err)
	}
	log.Infof("Submission stored with score %.2f/%.2f", score, quiz.MaxScore)

	correct := lo.CountBy(evaluated, func(r EvaluatedResponse) bool {
		return r.IsCorrect
	})
	suggestions := s.ai.GenerateSuggestions(ctx, aiquiz.PerformanceSummary{
		Subject: quiz.Subject,
		Grade:   quiz.Grade,
		Total:   len(evaluated),
		Correct: correct,
	})

	emailSent := user.Email != ""
	if emailSent {
		s.notify(ctx, user.Email, notification.ResultSummary{
			Subject:        quiz.Subject,
			Grade:          quiz.Grade,
			Score:          score,
			MaxScore:       quiz.MaxScore,
			CorrectCount:   correct,
			TotalQuestions: len(quiz.Questions),
		}, suggestions)
	} else {
		log.Info("No email address for user, skipping notification")
	}

	return &SubmitResult{
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		MaxScore:       quiz.MaxScore,
		Submission:     sub,
		Suggestions:    suggestions,
		EmailSent:      emailSent,
	}, nil
}

// notify never fails the submission; delivery problems are only logged.
func (s *quizService) notify(ctx context.Context, to string, summary notification.ResultSummary, suggestions []string) {
	log := config.WithContext(ctx)
	if s.notifier == nil {
		log.Warn("Email notification skipped: no dispatcher")
		return
	}
	if err := s.notifier.Notify(ctx, to, summary, suggestions); err != nil {
		log.WithError(err).Warn("Email notification failed")
	}
}

// History hides the answers of quizzes that have not been submitted yet.
func (s *quizService) History(ctx context.Context, user Identity, filter HistoryFilter) ([]*ClientQuiz, error) {
	log := config.WithContext(ctx).WithField("username", user.Username)

	quizzes, err := s.repo.ListByFilter(ctx, user.Username, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list quiz history")
		return nil, fmt.Errorf("list history: %w", err)
	}

	history := lo.Map(FilterByMinScore(quizzes, filter.MinScore), func(q *Quiz, _ int) *ClientQuiz {
		return ToHistoryQuiz(q)
	})

	log.Debugf("History returned %d quizzes", len(history))
	return history, nil
}

func (s *quizService) RetryQuiz(ctx context.Context, user Identity, quizID string) (*ClientQuiz, error) {
	log := config.WithContext(ctx).WithField("username", user.Username)

	original, err := s.loadOwnedQuiz(ctx, user, quizID)
	if err != nil {
		return nil, err
	}

	originalID := original.ID
	retry := &Quiz{
		ID:             uuid.New(),
		Username:       user.Username,
		Grade:          original.Grade,
		Subject:        original.Subject,
		Difficulty:     original.Difficulty,
		MaxScore:       original.MaxScore,
		OriginalQuizID: &originalID,
		Questions: lo.Map(original.Questions, func(q QuizQuestion, _ int) QuizQuestion {
			return QuizQuestion{
				ID:            uuid.New(),
				QuestionID:    q.QuestionID,
				Question:      q.Question,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				OrderIndex:    q.OrderIndex,
			}
		}),
	}

	if err := s.repo.Create(ctx, retry); err != nil {
		log.WithError(err).Error("Failed to store retry quiz")
		return nil, fmt.Errorf("store retry quiz: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"quiz_id":          retry.ID.String(),
		"original_quiz_id": originalID.String(),
	}).Info("Retry quiz created")
	return ToClientQuiz(retry), nil
}

// loadOwnedQuiz hides quizzes of other users behind ErrQuizNotFound.
func (s *quizService) loadOwnedQuiz(ctx context.Context, user Identity, rawID string) (*Quiz, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: quizId must be a valid id", ErrInvalidRequest)
	}

	quiz, err := s.repo.GetByID(ctx, id)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load quiz")
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz == nil || quiz.Username != user.Username {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}
