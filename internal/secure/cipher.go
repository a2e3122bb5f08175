package secure

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidKey        = errors.New("encryption key must be exactly 32 bytes")
	ErrMalformedCipher   = errors.New("malformed ciphertext")
	ErrDecryptionFailure = errors.New("failed to decrypt email")
)

// EmailCipher encrypts email addresses at rest with XChaCha20-Poly1305.
// Every call uses a fresh random nonce, so equal inputs give different ciphertexts.
type EmailCipher struct {
	aead cipher.AEAD
}

func NewEmailCipher(key []byte) (*EmailCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}

	return &EmailCipher{aead: aead}, nil
}

// Encrypt returns base64url(nonce || sealed).
func (c *EmailCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	_, err := rand.Read(nonce)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *EmailCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCipher, err)
	}

	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return "", ErrMalformedCipher
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailure
	}

	return string(plain), nil
}
