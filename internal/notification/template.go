package notification

import (
	"bytes"
	"html/template"
	"strconv"
)

var resultsTemplate = template.Must(template.New("results").Parse(`<h2>Your Quiz Results</h2>
<p>Here are your results for the {{.Subject}} quiz:</p>
<div style="margin: 20px 0; padding: 15px; background: #f5f5f5; border-radius: 5px;">
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Grade Level:</strong> {{.Grade}}</p>
  <p><strong>Score:</strong> {{.Score}} out of {{.MaxScore}}</p>
  <p><strong>Questions Correct:</strong> {{.CorrectCount}} out of {{.TotalQuestions}}</p>
</div>
<h3>Improvement Suggestions:</h3>
<ul>
{{- range .Suggestions}}
  <li>{{.}}</li>
{{- end}}
</ul>
`))

type resultsView struct {
	Subject        string
	Grade          int
	Score          string
	MaxScore       string
	CorrectCount   int
	TotalQuestions int
	Suggestions    []string
}

func subjectLine(summary ResultSummary) string {
	return "Quiz Results - " + summary.Subject
}

func renderResults(summary ResultSummary, suggestions []string) (string, error) {
	view := resultsView{
		Subject:        summary.Subject,
		Grade:          summary.Grade,
		Score:          formatNumber(summary.Score),
		MaxScore:       formatNumber(summary.MaxScore),
		CorrectCount:   summary.CorrectCount,
		TotalQuestions: summary.TotalQuestions,
		Suggestions:    suggestions,
	}

	var buf bytes.Buffer
	if err := resultsTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatNumber prints 8 rather than 8.000000 and 6.67 as-is.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
