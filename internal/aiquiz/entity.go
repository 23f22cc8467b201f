package aiquiz

// Question is one generated multiple-choice item. CorrectAnswer stays on the
// server until a submission is graded.
type Question struct {
	ID            string   `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type QuestionRequest struct {
	Subject    string
	Grade      int
	Count      int
	Difficulty string
}

type HintRequest struct {
	Question   string `json:"question" validate:"required,max=2000"`
	Subject    string `json:"subject" validate:"required,max=100"`
	Grade      int    `json:"grade" validate:"required,min=1,max=12"`
	QuestionID string `json:"questionId"`
}

type HintResponse struct {
	Success    bool   `json:"success"`
	Hint       string `json:"hint"`
	QuestionID string `json:"questionId,omitempty"`
}

// PerformanceSummary is what the suggestion prompt needs to know about a graded attempt.
type PerformanceSummary struct {
	Subject string
	Grade   int
	Total   int
	Correct int
}

// rawQuestion mirrors the object shape the model is asked to return.
type rawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}
