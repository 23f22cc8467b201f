package quiz_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/saulo-duarte/quizzer/internal/aiquiz"
	"github.com/saulo-duarte/quizzer/internal/quiz"
)

var (
	alice = quiz.Identity{Username: "alice", Email: "alice@school.test"}
	bob   = quiz.Identity{Username: "bob"}
)

func generatedQuestions() []aiquiz.Question {
	return []aiquiz.Question{
		{ID: "g1", Question: "2+2?", Options: []string{"A) 3", "B) 4"}, CorrectAnswer: "B"},
		{ID: "g2", Question: "3*3?", Options: []string{"A) 9", "B) 6"}, CorrectAnswer: "A"},
	}
}

func newTestService(t *testing.T) (quiz.QuizService, *fakeAI, *fakeNotifier) {
	t.Helper()
	ai := &fakeAI{questions: generatedQuestions()}
	notifier := &fakeNotifier{}
	return quiz.NewService(quiz.NewRepository(newTestDB(t)), ai, notifier), ai, notifier
}

var generateReq = quiz.GenerateQuizRequest{
	Grade:          3,
	Subject:        "Arithmetic",
	TotalQuestions: 2,
	MaxScore:       20,
	Difficulty:     "easy",
}

func TestGenerateQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresQuizAndHidesAnswers", func(t *testing.T) {
		svc, ai, _ := newTestService(t)

		got, err := svc.GenerateQuiz(ctx, alice, generateReq)
		if err != nil {
			t.Fatalf("GenerateQuiz failed: %v", err)
		}
		if got.Username != "alice" || got.IsCompleted || got.MaxScore != 20 || len(got.Questions) != 2 {
			t.Errorf("unexpected quiz: %+v", got)
		}
		if got.Questions[0].QuestionID != "g1" {
			t.Errorf("question ids should come from generation, got %s", got.Questions[0].QuestionID)
		}

		raw, err := json.Marshal(got)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(raw), "correctAnswer") {
			t.Errorf("client quiz leaks answers: %s", raw)
		}

		if len(ai.requests) != 1 || ai.requests[0].Count != 2 || ai.requests[0].Subject != "Arithmetic" {
			t.Errorf("unexpected generation request: %+v", ai.requests)
		}

		history, err := svc.History(ctx, alice, quiz.HistoryFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 1 || len(history[0].Questions) != 2 {
			t.Errorf("stored quiz missing from history: %+v", history)
		}
	})

	t.Run("InvalidRequest", func(t *testing.T) {
		svc, ai, _ := newTestService(t)
		bad := generateReq
		bad.TotalQuestions = 0

		_, err := svc.GenerateQuiz(ctx, alice, bad)
		if !errors.Is(err, quiz.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
		if len(ai.requests) != 0 {
			t.Error("generation should not run for invalid requests")
		}
	})

	t.Run("GenerationFailure", func(t *testing.T) {
		svc, ai, _ := newTestService(t)
		ai.err = fmt.Errorf("%w: model returned prose", aiquiz.ErrGeneration)

		if _, err := svc.GenerateQuiz(ctx, alice, generateReq); !errors.Is(err, aiquiz.ErrGeneration) {
			t.Fatalf("expected ErrGeneration, got %v", err)
		}
		history, _ := svc.History(ctx, alice, quiz.HistoryFilter{})
		if len(history) != 0 {
			t.Errorf("nothing should be stored, got %d quizzes", len(history))
		}
	})
}

func TestSubmitQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("ScoresNotifiesAndStores", func(t *testing.T) {
		svc, ai, notifier := newTestService(t)
		created, err := svc.GenerateQuiz(ctx, alice, generateReq)
		if err != nil {
			t.Fatal(err)
		}

		res, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{
			QuizID: created.ID.String(),
			Responses: []quiz.ResponseInput{
				{QuestionID: "g1", UserResponse: "b) 4"},
				{QuestionID: "g2", UserResponse: "B"},
			},
		})
		if err != nil {
			t.Fatalf("SubmitQuiz failed: %v", err)
		}
		if res.Score != 10 || res.MaxScore != 20 || res.TotalQuestions != 2 || !res.EmailSent {
			t.Errorf("unexpected result: %+v", res)
		}
		if len(res.Suggestions) != 2 {
			t.Errorf("expected two suggestions, got %v", res.Suggestions)
		}
		if len(res.Submission.Responses) != 2 || !res.Submission.Responses[0].IsCorrect {
			t.Errorf("unexpected submission: %+v", res.Submission)
		}

		if len(ai.summaries) != 1 || ai.summaries[0].Correct != 1 || ai.summaries[0].Total != 2 {
			t.Errorf("unexpected performance summary: %+v", ai.summaries)
		}
		if len(notifier.calls) != 1 {
			t.Fatalf("expected one notification, got %d", len(notifier.calls))
		}
		call := notifier.calls[0]
		if call.to != "alice@school.test" || call.summary.CorrectCount != 1 || call.summary.Score != 10 || call.summary.Subject != "Arithmetic" {
			t.Errorf("unexpected notification: %+v", call)
		}

		history, err := svc.History(ctx, alice, quiz.HistoryFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if !history[0].IsCompleted || len(history[0].Submissions) != 1 {
			t.Errorf("submission not stored: %+v", history[0])
		}
	})

	t.Run("NotificationFailureStillSucceeds", func(t *testing.T) {
		svc, _, notifier := newTestService(t)
		notifier.err = errSMTP
		created, err := svc.GenerateQuiz(ctx, alice, generateReq)
		if err != nil {
			t.Fatal(err)
		}

		res, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{QuizID: created.ID.String()})
		if err != nil {
			t.Fatalf("SubmitQuiz should not fail on email errors: %v", err)
		}
		if !res.EmailSent || res.Score != 0 {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("NoEmailSkipsNotification", func(t *testing.T) {
		svc, _, notifier := newTestService(t)
		created, err := svc.GenerateQuiz(ctx, bob, generateReq)
		if err != nil {
			t.Fatal(err)
		}

		res, err := svc.SubmitQuiz(ctx, bob, quiz.SubmitQuizRequest{QuizID: created.ID.String()})
		if err != nil {
			t.Fatal(err)
		}
		if res.EmailSent || len(notifier.calls) != 0 {
			t.Errorf("expected no notification, emailSent=%v calls=%d", res.EmailSent, len(notifier.calls))
		}
	})

	t.Run("OtherUsersQuizIsNotFound", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.GenerateQuiz(ctx, alice, generateReq)
		if err != nil {
			t.Fatal(err)
		}

		_, err = svc.SubmitQuiz(ctx, bob, quiz.SubmitQuizRequest{QuizID: created.ID.String()})
		if !errors.Is(err, quiz.ErrQuizNotFound) {
			t.Errorf("expected ErrQuizNotFound, got %v", err)
		}
	})

	t.Run("UnknownQuestionRejected", func(t *testing.T) {
		svc, _, notifier := newTestService(t)
		created, err := svc.GenerateQuiz(ctx, alice, generateReq)
		if err != nil {
			t.Fatal(err)
		}

		_, err = svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{
			QuizID:    created.ID.String(),
			Responses: []quiz.ResponseInput{{QuestionID: "nope", UserResponse: "A"}},
		})
		if !errors.Is(err, quiz.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
		if len(notifier.calls) != 0 {
			t.Error("rejected submissions must not notify")
		}
	})

	t.Run("MalformedQuizID", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{QuizID: "not-a-uuid"})
		if !errors.Is(err, quiz.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
	})
}

func TestRetryQuiz(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	original, err := svc.GenerateQuiz(ctx, alice, generateReq)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{QuizID: original.ID.String()}); err != nil {
		t.Fatal(err)
	}

	retry, err := svc.RetryQuiz(ctx, alice, original.ID.String())
	if err != nil {
		t.Fatalf("RetryQuiz failed: %v", err)
	}
	if retry.ID == original.ID {
		t.Error("retry must get a new id")
	}
	if retry.OriginalQuizID == nil || *retry.OriginalQuizID != original.ID {
		t.Errorf("unexpected provenance: %v", retry.OriginalQuizID)
	}
	if retry.IsCompleted || len(retry.Submissions) != 0 {
		t.Errorf("retry should start fresh: %+v", retry)
	}
	if len(retry.Questions) != 2 || retry.Questions[0].QuestionID != "g1" || retry.Questions[1].QuestionID != "g2" {
		t.Errorf("questions should be copied verbatim: %+v", retry.Questions)
	}
	if retry.Subject != original.Subject || retry.MaxScore != original.MaxScore || retry.Difficulty != original.Difficulty {
		t.Errorf("settings not copied: %+v", retry)
	}

	// The copied questions keep their ids, so the retry can be graded with them.
	res, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{
		QuizID: retry.ID.String(),
		Responses: []quiz.ResponseInput{
			{QuestionID: "g1", UserResponse: "B"},
			{QuestionID: "g2", UserResponse: "A"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 20 {
		t.Errorf("expected full marks on retry, got %v", res.Score)
	}

	t.Run("OtherUser", func(t *testing.T) {
		if _, err := svc.RetryQuiz(ctx, bob, original.ID.String()); !errors.Is(err, quiz.ErrQuizNotFound) {
			t.Errorf("expected ErrQuizNotFound, got %v", err)
		}
	})
}

func TestHistoryAnswerVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	graded, err := svc.GenerateQuiz(ctx, alice, generateReq)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{QuizID: graded.ID.String()}); err != nil {
		t.Fatal(err)
	}
	pending, err := svc.GenerateQuiz(ctx, alice, generateReq)
	if err != nil {
		t.Fatal(err)
	}
	retry, err := svc.RetryQuiz(ctx, alice, graded.ID.String())
	if err != nil {
		t.Fatal(err)
	}

	history, err := svc.History(ctx, alice, quiz.HistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 quizzes, got %d", len(history))
	}

	for _, q := range history {
		switch q.ID {
		case graded.ID:
			if !q.IsCompleted || q.Questions[0].CorrectAnswer != "B" || q.Questions[1].CorrectAnswer != "A" {
				t.Errorf("graded quiz should show answers: %+v", q.Questions)
			}
		case pending.ID, retry.ID:
			if q.IsCompleted {
				t.Errorf("quiz %s should still be open", q.ID)
			}
			raw, err := json.Marshal(q)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(string(raw), "correctAnswer") {
				t.Errorf("open quiz leaks answers in history: %s", raw)
			}
		default:
			t.Errorf("unexpected quiz %s in history", q.ID)
		}
	}
}

func TestHistoryMinScore(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	passed, err := svc.GenerateQuiz(ctx, alice, generateReq)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitQuiz(ctx, alice, quiz.SubmitQuizRequest{
		QuizID: passed.ID.String(),
		Responses: []quiz.ResponseInput{
			{QuestionID: "g1", UserResponse: "B"},
			{QuestionID: "g2", UserResponse: "A"},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GenerateQuiz(ctx, alice, generateReq); err != nil {
		t.Fatal(err)
	}

	threshold := 50.0
	history, err := svc.History(ctx, alice, quiz.HistoryFilter{MinScore: &threshold})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != passed.ID {
		t.Errorf("expected only the passed quiz, got %d", len(history))
	}

	empty, err := svc.History(ctx, bob, quiz.HistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil history, got %v", empty)
	}
}
