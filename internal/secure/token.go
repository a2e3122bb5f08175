package secure

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy of every action token.
const TokenBytes = 32

// GenerateToken returns 32 random bytes, hex encoded (64 chars).
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenBytes)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ValidToken reports whether s has the shape of a generated token.
// Used to reject garbage before it reaches the database.
func ValidToken(s string) bool {
	if len(s) != hex.EncodedLen(TokenBytes) {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// GoalTokens holds the three capabilities issued for a goal.
// Each is checked only against its own column.
type GoalTokens struct {
	Delete      string
	Unsubscribe string
	Response    string
}

func NewGoalTokens() (GoalTokens, error) {
	var t GoalTokens
	var err error

	t.Delete, err = GenerateToken()
	if err != nil {
		return GoalTokens{}, err
	}
	t.Unsubscribe, err = GenerateToken()
	if err != nil {
		return GoalTokens{}, err
	}
	t.Response, err = GenerateToken()
	if err != nil {
		return GoalTokens{}, err
	}

	return t, nil
}
