package quiz

import "github.com/samber/lo"

// BestScorePercentage is the highest submission score as a percentage of
// the quiz maximum. ok is false when the quiz was never submitted.
func BestScorePercentage(q *Quiz) (pct float64, ok bool) {
	if len(q.Submissions) == 0 {
		return 0, false
	}
	if q.MaxScore <= 0 {
		return 0, true
	}
	best := lo.MaxBy(q.Submissions, func(a, b Submission) bool {
		return a.Score > b.Score
	})
	return best.Score * 100 / q.MaxScore, true
}

// FilterByMinScore keeps quizzes whose best attempt reaches minScore percent.
// Unsubmitted quizzes never pass a minimum.
func FilterByMinScore(quizzes []*Quiz, minScore *float64) []*Quiz {
	if minScore == nil {
		return quizzes
	}
	return lo.Filter(quizzes, func(q *Quiz, _ int) bool {
		pct, ok := BestScorePercentage(q)
		return ok && pct >= *minScore
	})
}
