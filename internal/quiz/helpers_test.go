package quiz_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/notification"
	"github.com/saulo-duarte/quizzer/internal/quiz"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := quiz.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// sampleQuiz builds a three-question quiz worth maxScore whose answers are A, B, C.
func sampleQuiz(username string, maxScore float64) *quiz.Quiz {
	q := &quiz.Quiz{
		ID:         uuid.New(),
		Username:   username,
		Grade:      5,
		Subject:    "Math",
		Difficulty: "easy",
		MaxScore:   maxScore,
	}
	for i, answer := range []string{"A", "B", "C"} {
		q.Questions = append(q.Questions, quiz.QuizQuestion{
			ID:            uuid.New(),
			QuestionID:    "q" + string(rune('1'+i)),
			Question:      "Question " + string(rune('1'+i)),
			Options:       datatypes.JSON(`["A) one","B) two","C) three","D) four"]`),
			CorrectAnswer: answer,
			OrderIndex:    i,
		})
	}
	return q
}

type fakeAI struct {
	mu          sync.Mutex
	questions   []aiquiz.Question
	err         error
	suggestions []string
	summaries   []aiquiz.PerformanceSummary
	requests    []aiquiz.QuestionRequest
}

func (f *fakeAI) GenerateQuestions(ctx context.Context, req aiquiz.QuestionRequest) ([]aiquiz.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *fakeAI) GenerateHint(ctx context.Context, req aiquiz.HintRequest) (string, error) {
	return "hint", nil
}

func (f *fakeAI) GenerateSuggestions(ctx context.Context, summary aiquiz.PerformanceSummary) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, summary)
	if f.suggestions == nil {
		return []string{"Keep practicing", "Review the basics"}
	}
	return f.suggestions
}

type notifyCall struct {
	to          string
	summary     notification.ResultSummary
	suggestions []string
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls []notifyCall
}

func (n *fakeNotifier) Notify(ctx context.Context, to string, summary notification.ResultSummary, suggestions []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{to: to, summary: summary, suggestions: suggestions})
	return n.err
}

var errSMTP = errors.New("mail relay down")
