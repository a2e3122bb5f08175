package secure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, tok, 64)
		assert.True(t, ValidToken(tok))
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestValidToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", false},
		{"too short", "abc123", false},
		{"uppercase hex", strings.Repeat("A", 64), false},
		{"non hex", strings.Repeat("z", 64), false},
		{"too long", strings.Repeat("a", 65), false},
		{"valid", strings.Repeat("0a", 32), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidToken(tt.input))
		})
	}
}

func TestNewGoalTokens_Distinct(t *testing.T) {
	tokens, err := NewGoalTokens()
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.Delete)
	assert.NotEmpty(t, tokens.Unsubscribe)
	assert.NotEmpty(t, tokens.Response)
	assert.NotEqual(t, tokens.Delete, tokens.Response)
	assert.NotEqual(t, tokens.Delete, tokens.Unsubscribe)
	assert.NotEqual(t, tokens.Unsubscribe, tokens.Response)
}

func TestNewEmailCipher_KeyLength(t *testing.T) {
	_, err := NewEmailCipher([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewEmailCipher(testKey)
	assert.NoError(t, err)
}

func TestEmailCipher_RoundTrip(t *testing.T) {
	c, err := NewEmailCipher(testKey)
	require.NoError(t, err)

	emails := []string{
		"a@example.com",
		"first.last+tag@sub.example.co.uk",
		"üñîçødé@example.org",
		"x@y.z",
	}

	for _, email := range emails {
		t.Run(email, func(t *testing.T) {
			first, err := c.Encrypt(email)
			require.NoError(t, err)
			second, err := c.Encrypt(email)
			require.NoError(t, err)

			assert.NotEqual(t, first, second, "ciphertexts should differ due to random nonce")
			assert.NotContains(t, first, email)

			got1, err := c.Decrypt(first)
			require.NoError(t, err)
			got2, err := c.Decrypt(second)
			require.NoError(t, err)

			assert.Equal(t, email, got1)
			assert.Equal(t, email, got2)
		})
	}
}

func TestEmailCipher_DecryptFailures(t *testing.T) {
	c, err := NewEmailCipher(testKey)
	require.NoError(t, err)

	_, err = c.Decrypt("not base64 !!!")
	assert.ErrorIs(t, err, ErrMalformedCipher)

	_, err = c.Decrypt("AAAA")
	assert.ErrorIs(t, err, ErrMalformedCipher)

	ct, err := c.Encrypt("a@example.com")
	require.NoError(t, err)

	other, err := NewEmailCipher([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	_, err = other.Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryptionFailure)
}
