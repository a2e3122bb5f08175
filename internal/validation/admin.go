package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/futurenote/futurenote/internal/model"
)

// weakPasswordPatterns are rejected anywhere in a password, case-insensitive
var weakPasswordPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "futurenote", "dragon", "master", "sunshine",
}

// ValidatePassword enforces a 12 character minimum and the 72 byte bcrypt ceiling
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}

	// bcrypt silently truncates past 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 bytes")
	}

	lower := strings.ToLower(password)
	for _, pattern := range weakPasswordPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}

// AdminAccount is the input for creating a console account.
type AdminAccount struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// ValidateAdminAccount checks a new account and returns it with the
// email lowercased and the role defaulted to ADMIN.
func ValidateAdminAccount(in AdminAccount) (AdminAccount, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))

	err := ValidateEmail(in.Email)
	if err != nil {
		return in, err
	}

	if in.Name == "" {
		return in, errors.New("name is required")
	}
	if utf8.RuneCountInString(in.Name) > 100 {
		return in, errors.New("name is too long (max 100 characters)")
	}

	if in.Role == "" {
		in.Role = model.AdminRoleAdmin
	}
	if in.Role != model.AdminRoleAdmin && in.Role != model.AdminRoleModerator {
		return in, errors.New("role must be ADMIN or MODERATOR")
	}

	err = ValidatePassword(in.Password)
	if err != nil {
		return in, err
	}

	return in, nil
}
