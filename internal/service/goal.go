package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/secure"
	"github.com/futurenote/futurenote/internal/validation"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrAlreadyResponded = errors.New("already responded")
	ErrInvalidToken     = errors.New("invalid token")
	ErrPolicyViolation  = errors.New("content policy violation")
)

// EmailCipher protects email addresses at rest.
type EmailCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type GoalService struct {
	goals     repository.GoalRepository
	emailLogs repository.EmailLogRepository
	badges    *BadgeService
	cipher    EmailCipher
	mailer    Mailer
	now       func() time.Time
}

func NewGoalService(
	goals repository.GoalRepository,
	emailLogs repository.EmailLogRepository,
	badges *BadgeService,
	cipher EmailCipher,
	mailer Mailer,
) *GoalService {
	return &GoalService{
		goals:     goals,
		emailLogs: emailLogs,
		badges:    badges,
		cipher:    cipher,
		mailer:    mailer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type SubmitResult struct {
	GoalID    string
	NewBadges []model.BadgeDefinition
}

// Submit validates, stores and confirms a new goal. A failed confirmation
// email is logged but does not fail the submission.
func (s *GoalService) Submit(ctx context.Context, in validation.GoalSubmission, submitter string) (*SubmitResult, error) {
	clean, err := validation.ValidateSubmission(in)
	if err != nil {
		return nil, err
	}

	err = validation.CheckPolicy(clean.GoalText, clean.UserName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyViolation, err)
	}

	encrypted, err := s.cipher.Encrypt(clean.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt email: %w", err)
	}

	tokens, err := secure.NewGoalTokens()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := s.now()
	goal := &model.Goal{
		ID:               uuid.New().String(),
		GoalText:         clean.GoalText,
		UserName:         clean.UserName,
		Category:         clean.Category,
		Email:            encrypted,
		IPAddress:        submitter,
		IsPublic:         true,
		ReminderDate:     model.ReminderDateFor(now),
		DeleteToken:      tokens.Delete,
		UnsubscribeToken: tokens.Unsubscribe,
		ResponseToken:    tokens.Response,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.goals.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "goal_id", goal.ID, "category", goal.Category)

	result := s.mailer.SendConfirmation(ctx, clean.Email, goal)
	s.logEmail(ctx, goal.ID, model.EmailTypeConfirmation, result)

	badges, err := s.badges.CheckAndAwardBadges(ctx, goal.ID, submitter)
	if err != nil {
		slog.Error("failed to check badges", "goal_id", goal.ID, "error", err)
	}

	return &SubmitResult{GoalID: goal.ID, NewBadges: badges}, nil
}

type GoalPage struct {
	Goals   []*model.PublicGoal
	HasMore bool
	Page    int
}

// PublicGoals pages through the public feed, newest first. HasMore comes
// from fetching one row past the page.
func (s *GoalService) PublicGoals(ctx context.Context, page, limit int) (*GoalPage, error) {
	page, limit = normalizePage(page, limit, DefaultPageSize)

	goals, err := s.goals.Public(ctx, limit+1, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	hasMore := len(goals) > limit
	if hasMore {
		goals = goals[:limit]
	}
	if goals == nil {
		goals = []*model.PublicGoal{}
	}

	return &GoalPage{Goals: goals, HasMore: hasMore, Page: page}, nil
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

type RespondResult struct {
	Goal      *model.Goal
	NewBadges []model.BadgeDefinition
}

// Respond records the answer to the reminder. The token works once;
// later clicks get ErrAlreadyResponded.
func (s *GoalService) Respond(ctx context.Context, token string, achieved bool) (*RespondResult, error) {
	if !secure.ValidToken(token) {
		return nil, ErrInvalidToken
	}

	goal, err := s.goals.RecordResponse(ctx, token, achieved, s.now())
	if errors.Is(err, repository.ErrAlreadyResponded) {
		return nil, ErrAlreadyResponded
	}
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	slog.Info("goal response recorded", "goal_id", goal.ID, "achieved", achieved)

	res := &RespondResult{Goal: goal}
	if achieved {
		res.NewBadges, err = s.badges.CheckAndAwardBadges(ctx, goal.ID, goal.IPAddress)
		if err != nil {
			slog.Error("failed to check badges", "goal_id", goal.ID, "error", err)
		}
	}

	// The answer is stored at this point; an unreadable address still
	// fails the request.
	email, err := s.cipher.Decrypt(goal.Email)
	if err != nil {
		s.logEmail(ctx, goal.ID, model.EmailTypeAchievement, failed(err))
		return nil, fmt.Errorf("failed to decrypt email: %w", err)
	}

	result := s.mailer.SendAchievement(ctx, email, goal, achieved)
	s.logEmail(ctx, goal.ID, model.EmailTypeAchievement, result)

	return res, nil
}

// DeleteByToken soft-deletes the goal. A second use reports ErrGoalNotFound.
func (s *GoalService) DeleteByToken(ctx context.Context, token string) (*model.Goal, error) {
	if !secure.ValidToken(token) {
		return nil, ErrInvalidToken
	}

	goal, err := s.goals.SoftDeleteByToken(ctx, token, s.now())
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("goal deleted by owner", "goal_id", goal.ID)
	return goal, nil
}

// Unsubscribe stops the reminder for the goal. Repeating it succeeds.
func (s *GoalService) Unsubscribe(ctx context.Context, token string) (*model.Goal, error) {
	if !secure.ValidToken(token) {
		return nil, ErrInvalidToken
	}

	goal, err := s.goals.UnsubscribeByToken(ctx, token, s.now())
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	slog.Info("goal unsubscribed", "goal_id", goal.ID)
	return goal, nil
}

func (s *GoalService) logEmail(ctx context.Context, goalID, emailType string, result SendResult) {
	recordEmail(ctx, s.emailLogs, goalID, emailType, result, s.now())
}

// recordEmail writes a dispatch outcome. Logging failures never propagate.
func recordEmail(ctx context.Context, logs repository.EmailLogRepository, goalID, emailType string, result SendResult, at time.Time) {
	err := logs.Create(ctx, emailLogEntry(goalID, emailType, result, at))
	if err != nil {
		slog.Error("failed to write email log", "goal_id", goalID, "type", emailType, "error", err)
	}
}

func emailLogEntry(goalID, emailType string, result SendResult, at time.Time) *model.EmailLog {
	entry := &model.EmailLog{
		GoalID:    goalID,
		EmailType: emailType,
		Status:    model.EmailStatusFailed,
		SentAt:    at,
	}
	if result.Success {
		entry.Status = model.EmailStatusSent
	}
	if result.MessageID != "" {
		entry.MessageID = &result.MessageID
	}
	if result.Error != "" {
		entry.ErrorMessage = &result.Error
	}
	return entry
}
