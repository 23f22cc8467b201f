package quiz

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(ctx context.Context, q *Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	ListByFilter(ctx context.Context, username string, f HistoryFilter) ([]*Quiz, error)
	AppendSubmission(ctx context.Context, q *Quiz, sub *Submission) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// GetByID returns nil, nil when the quiz does not exist.
func (r *quizRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var quiz Quiz
	err := withChildren(r.db.WithContext(ctx)).First(&quiz, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) ListByFilter(ctx context.Context, username string, f HistoryFilter) ([]*Quiz, error) {
	query := r.db.WithContext(ctx).Where("username = ?", username)

	if f.Grade != nil {
		query = query.Where("grade = ?", *f.Grade)
	}
	if f.Subject != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Subject)) + "%"
		query = query.Where(`LOWER(subject) LIKE ? ESCAPE '\'`, pattern)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}

	var quizzes []*Quiz
	if err := withChildren(query).Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

// AppendSubmission stores the submission and marks the quiz completed in one
// transaction. The quiz row only changes if its version still matches q, so
// a concurrent submission makes this call fail with ErrSubmissionConflict.
func (r *quizRepository) AppendSubmission(ctx context.Context, q *Quiz, sub *Submission) error {
	sub.QuizID = q.ID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		res := tx.Model(&Quiz{}).
			Where("id = ? AND version = ?", q.ID, q.Version).
			Updates(map[string]interface{}{
				"is_completed": true,
				"version":      gorm.Expr("version + ?", 1),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSubmissionConflict
		}
		return nil
	})
	if err != nil {
		return err
	}

	q.IsCompleted = true
	q.Version++
	q.Submissions = append(q.Submissions, *sub)
	return nil
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("submitted_at ASC")
		}).
		Preload("Submissions.Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
