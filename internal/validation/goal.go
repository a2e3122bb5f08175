package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/futurenote/futurenote/internal/model"
)

const (
	GoalTextMinLength = 10
	GoalTextMaxLength = 500
	UserNameMaxLength = 50
	EmailMaxLength    = 100
	ReasonMaxLength   = 500

	DefaultUserName = "Anonymous"
)

var (
	ErrProfanity = errors.New("content contains inappropriate language")
	ErrPII       = errors.New("content contains personal information")
)

// FieldError is a user-facing validation failure for one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// GoalSubmission is the raw public form input.
type GoalSubmission struct {
	GoalText string `json:"goalText"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Category string `json:"category"`
}

// ValidateSubmission sanitizes and validates a submission and returns the
// cleaned copy. Only shape is checked here; see CheckPolicy for content rules.
func ValidateSubmission(in GoalSubmission) (GoalSubmission, error) {
	out := GoalSubmission{
		GoalText: Sanitize(in.GoalText),
		Email:    strings.TrimSpace(in.Email),
		UserName: Sanitize(in.UserName),
		Category: strings.ToUpper(strings.TrimSpace(in.Category)),
	}

	n := utf8.RuneCountInString(out.GoalText)
	if n < GoalTextMinLength {
		return out, &FieldError{Field: "goalText", Message: "Goal must be at least 10 characters"}
	}
	if n > GoalTextMaxLength {
		return out, &FieldError{Field: "goalText", Message: "Goal must be less than 500 characters"}
	}

	if len(out.Email) > EmailMaxLength {
		return out, &FieldError{Field: "email", Message: "Email too long"}
	}
	err := ValidateEmail(out.Email)
	if err != nil {
		return out, &FieldError{Field: "email", Message: "Invalid email address"}
	}

	if out.UserName == "" {
		out.UserName = DefaultUserName
	}
	if utf8.RuneCountInString(out.UserName) > UserNameMaxLength {
		return out, &FieldError{Field: "userName", Message: "Name too long"}
	}

	if out.Category == "" {
		out.Category = model.CategoryOther
	}
	if !model.ValidCategory(out.Category) {
		return out, &FieldError{Field: "category", Message: "Invalid category"}
	}

	return out, nil
}

// CheckPolicy runs the profanity and PII screens over already sanitized text.
func CheckPolicy(texts ...string) error {
	for _, t := range texts {
		if ContainsProfanity(t) {
			return ErrProfanity
		}
	}
	for _, t := range texts {
		if ContainsPII(t) {
			return ErrPII
		}
	}
	return nil
}

// ValidateReason sanitizes a report reason, falling back to a default.
func ValidateReason(reason string) (string, error) {
	reason = Sanitize(reason)
	if reason == "" {
		return "User reported", nil
	}
	if utf8.RuneCountInString(reason) > ReasonMaxLength {
		return "", &FieldError{Field: "reason", Message: "Reason too long"}
	}
	return reason, nil
}
