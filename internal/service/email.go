package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"github.com/futurenote/futurenote/internal/markdown"
	"github.com/futurenote/futurenote/internal/model"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

// SendResult is the outcome of one dispatch. Mailers report failures here
// instead of returning errors so callers can log them per goal.
type SendResult struct {
	Success   bool
	MessageID string
	Error     string
}

func failed(err error) SendResult {
	return SendResult{Error: err.Error()}
}

// Mailer sends the goal lifecycle emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, to string, goal *model.Goal) SendResult
	SendReminder(ctx context.Context, to string, goal *model.Goal) SendResult
	SendAchievement(ctx context.Context, to string, goal *model.Goal, achieved bool) SendResult
}

type EmailService struct {
	client     *resend.Client
	parser     *markdown.Parser
	fromEmail  string
	isDev      bool
	appURL     string
	appName    string
	attempts   uint
	retryDelay time.Duration
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:     client,
		parser:     markdown.NewParser(),
		fromEmail:  fromEmail,
		isDev:      isDev,
		appURL:     appURL,
		appName:    appName,
		attempts:   3,
		retryDelay: 500 * time.Millisecond,
	}
}

func (s *EmailService) tokenURL(path, token string, extra url.Values) string {
	q := url.Values{"token": {token}}
	for k, v := range extra {
		q[k] = v
	}
	return fmt.Sprintf("%s%s?%s", s.appURL, path, q.Encode())
}

func (s *EmailService) SendConfirmation(ctx context.Context, to string, goal *model.Goal) SendResult {
	data := confirmationEmailData{
		AppName:      s.appName,
		ReminderDate: goal.ReminderDate.Format("January 2, 2006"),
		DeleteURL:    s.tokenURL("/api/goals/delete", goal.DeleteToken, nil),
	}
	escaped, plain := data, data
	escaped.GoalText = markdownEscaper.Replace(goal.GoalText)
	plain.GoalText = goal.GoalText

	email, err := renderEmail(s.parser, "confirmation.md", escaped, plain)
	if err != nil {
		return failed(err)
	}
	return s.send(ctx, model.EmailTypeConfirmation, goal.ID, to, email, nil)
}

func (s *EmailService) SendReminder(ctx context.Context, to string, goal *model.Goal) SendResult {
	unsubscribeURL := s.tokenURL("/api/goals/unsubscribe", goal.UnsubscribeToken, nil)
	data := reminderEmailData{
		AppName:        s.appName,
		CreatedDate:    goal.CreatedAt.Format("January 2, 2006"),
		YesURL:         s.tokenURL("/api/goals/respond", goal.ResponseToken, url.Values{"achieved": {"yes"}}),
		NoURL:          s.tokenURL("/api/goals/respond", goal.ResponseToken, url.Values{"achieved": {"no"}}),
		UnsubscribeURL: unsubscribeURL,
	}
	escaped, plain := data, data
	escaped.GoalText = markdownEscaper.Replace(goal.GoalText)
	plain.GoalText = goal.GoalText

	email, err := renderEmail(s.parser, "reminder.md", escaped, plain)
	if err != nil {
		return failed(err)
	}
	headers := map[string]string{
		"List-Unsubscribe": "<" + unsubscribeURL + ">",
	}
	return s.send(ctx, model.EmailTypeReminder, goal.ID, to, email, headers)
}

func (s *EmailService) SendAchievement(ctx context.Context, to string, goal *model.Goal, achieved bool) SendResult {
	data := achievementEmailData{
		AppName:  s.appName,
		Achieved: achieved,
	}
	escaped, plain := data, data
	escaped.GoalText = markdownEscaper.Replace(goal.GoalText)
	plain.GoalText = goal.GoalText

	email, err := renderEmail(s.parser, "achievement.md", escaped, plain)
	if err != nil {
		return failed(err)
	}
	return s.send(ctx, model.EmailTypeAchievement, goal.ID, to, email, nil)
}

// idempotencyKey identifies one logical email. Resend drops repeated
// POSTs carrying the same key, so retries never deliver twice.
func idempotencyKey(goalID, emailType string) string {
	return goalID + ":" + emailType
}

func (s *EmailService) send(ctx context.Context, emailType, goalID, to string, email *renderedEmail, headers map[string]string) SendResult {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", email.Subject)
		return SendResult{Success: true, MessageID: "dev-" + uuid.New().String()}
	}

	if s.client == nil {
		return failed(ErrEmailNotConfigured)
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Headers: headers,
	}

	options := &resend.SendEmailOptions{IdempotencyKey: idempotencyKey(goalID, emailType)}

	var sent *resend.SendEmailResponse
	err := retry.Do(
		func() error {
			resp, err := s.client.Emails.SendWithOptions(ctx, params, options)
			if err != nil {
				return err
			}
			sent = resp
			return nil
		},
		retry.Attempts(s.attempts),
		retry.Delay(s.retryDelay),
		retry.MaxDelay(5*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying email send", "type", emailType, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		slog.Error("email send failed", "type", emailType, "goal_id", goalID, "error", err)
		return failed(err)
	}

	slog.Info("email sent", "type", emailType, "goal_id", goalID, "message_id", sent.Id)
	return SendResult{Success: true, MessageID: sent.Id}
}
