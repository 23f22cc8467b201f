package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/quizzer/internal/config"
)

var ErrNotificationDisabled = errors.New("email notifications are not configured")

type ResultSummary struct {
	Subject        string
	Grade          int
	Score          float64
	MaxScore       float64
	CorrectCount   int
	TotalQuestions int
}

// Dispatcher sends a result email for one graded submission.
type Dispatcher interface {
	Notify(ctx context.Context, recipient string, summary ResultSummary, suggestions []string) error
}

type emailDispatcher struct {
	mailer Mailer
}

// NewDispatcher wraps mailer; a nil mailer yields a dispatcher that always
// reports ErrNotificationDisabled.
func NewDispatcher(mailer Mailer) Dispatcher {
	return &emailDispatcher{mailer: mailer}
}

// NewDispatcherFromSettings builds a SendGrid-backed dispatcher, or a
// disabled one when no API key is configured.
func NewDispatcherFromSettings(settings *config.Settings) (Dispatcher, error) {
	sg := settings.SendGrid
	if strings.TrimSpace(sg.APIKey) == "" {
		return NewDispatcher(nil), nil
	}
	mailer, err := NewSendGridClient(SendGridConfig{
		APIKey:    sg.APIKey,
		BaseURL:   sg.BaseURL,
		FromEmail: sg.FromEmail,
		FromName:  sg.FromName,
	})
	if err != nil {
		return nil, err
	}
	return NewDispatcher(mailer), nil
}

func (d *emailDispatcher) Notify(ctx context.Context, recipient string, summary ResultSummary, suggestions []string) error {
	if d.mailer == nil {
		return ErrNotificationDisabled
	}

	log := config.WithContext(ctx).WithField("recipient", recipient)

	html, err := renderResults(summary, suggestions)
	if err != nil {
		return fmt.Errorf("render results email: %w", err)
	}

	if err := d.mailer.Send(ctx, Email{
		To:      EmailAddress{Email: recipient},
		Subject: subjectLine(summary),
		HTML:    html,
	}); err != nil {
		return fmt.Errorf("send results email: %w", err)
	}

	log.Info("Results email sent")
	return nil
}
