package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
)

const minSecretLength = 32

// Signer signs cookie values with HMAC-SHA256. The first secret signs;
// every secret is tried when verifying so keys can be rotated.
type Signer struct {
	secrets []string
}

func NewSigner(secrets ...string) (*Signer, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	return &Signer{secrets: secrets}, nil
}

// Sign returns base64(value) + "|" + base64(mac).
func (s *Signer) Sign(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + s.mac(s.secrets[0], []byte(value))
}

// Verify returns the original value of a signed string.
func (s *Signer) Verify(signed string) (string, error) {
	encoded, signature, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range s.secrets {
		expected := s.mac(secret, value)
		if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1 {
			return string(value), nil
		}
	}

	return "", ErrInvalidSignature
}

func (s *Signer) mac(secret string, value []byte) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write(value)
	return base64.URLEncoding.EncodeToString(m.Sum(nil))
}
