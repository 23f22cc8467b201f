package aiquiz

import "fmt"

const (
	questionsTemperature   = 0.5
	questionsMaxTokens     = 2048
	hintTemperature        = 0.7
	hintMaxTokens          = 100
	suggestionsTemperature = 0.7
	suggestionsMaxTokens   = 256
)

func BuildQuestionsPrompt(req QuestionRequest) string {
	return fmt.Sprintf(`Generate %d multiple choice questions about %s for grade %d students at %s difficulty level.
Format each question as a JSON object with these exact fields:
{
    "question": "question text here",
    "options": ["A) option1", "B) option2", "C) option3", "D) option4"],
    "correctAnswer": "A" or "B" or "C" or "D"
}
Return an array of %d such question objects.`,
		req.Count, req.Subject, req.Grade, req.Difficulty, req.Count,
	)
}

func BuildHintPrompt(req HintRequest) string {
	return fmt.Sprintf(`As a helpful tutor, provide a brief hint for this %s question: "%s"
The hint should:
- Guide the student towards the answer without revealing it
- Focus on key concepts or problem-solving steps
- Be appropriate for grade %d level
- Be concise (max 2 sentences)
Format: Return only the hint text without any prefixes.`,
		req.Subject, req.Question, req.Grade,
	)
}

func BuildSuggestionsPrompt(s PerformanceSummary) string {
	return fmt.Sprintf(`Based on this quiz performance in %s for grade %d:
- Total questions: %d
- Correct answers: %d

Provide exactly 2 specific suggestions to improve their understanding.
Format your response as a valid JSON array of 2 strings like this:
["suggestion 1", "suggestion 2"]`,
		s.Subject, s.Grade, s.Total, s.Correct,
	)
}
