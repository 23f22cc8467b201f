package quiz

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quiz struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"quizId"`
	Username       string     `gorm:"type:text;not null;index" json:"username"`
	Grade          int        `gorm:"not null" json:"grade"`
	Subject        string     `gorm:"type:text;not null" json:"subject"`
	Difficulty     string     `gorm:"type:text;not null" json:"difficulty"`
	MaxScore       float64    `gorm:"not null" json:"maxScore"`
	IsCompleted    bool       `gorm:"not null" json:"isCompleted"`
	OriginalQuizID *uuid.UUID `gorm:"type:uuid;index" json:"originalQuizId,omitempty"`
	Version        int        `gorm:"not null" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	Questions   []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions"`
	Submissions []Submission   `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"submissions"`
}

// QuizQuestion has its own row id so a retried quiz can reuse the same
// QuestionID values as the quiz it was cloned from.
type QuizQuestion struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	QuizID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	QuestionID    string         `gorm:"type:text;not null" json:"questionId"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string         `gorm:"type:text;not null" json:"correctAnswer"`
	OrderIndex    int            `gorm:"not null" json:"-"`
}

type Submission struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"submissionId"`
	QuizID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"-"`
	Score       float64             `gorm:"not null" json:"score"`
	SubmittedAt time.Time           `gorm:"not null;index" json:"submittedAt"`
	Responses   []EvaluatedResponse `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"responses"`
}

type EvaluatedResponse struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	SubmissionID            uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	OrderIndex              int       `gorm:"not null" json:"-"`
	QuestionID              string    `gorm:"type:text;not null" json:"questionId"`
	UserResponse            string    `gorm:"type:text" json:"userResponse"`
	IsCorrect               bool      `gorm:"not null" json:"isCorrect"`
	UserAnswer              string    `gorm:"type:text" json:"userAnswer"`
	CorrectAnswer           string    `gorm:"type:text" json:"correctAnswer"`
	NormalizedUserAnswer    string    `gorm:"type:text" json:"normalizedUserAnswer"`
	NormalizedCorrectAnswer string    `gorm:"type:text" json:"normalizedCorrectAnswer"`
}

func (Submission) TableName() string {
	return "quiz_submissions"
}

func (EvaluatedResponse) TableName() string {
	return "submission_responses"
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (r *EvaluatedResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OptionList decodes the stored options; a corrupt row yields nil.
func (q QuizQuestion) OptionList() []string {
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Quiz{}, &QuizQuestion{}, &Submission{}, &EvaluatedResponse{})
}
