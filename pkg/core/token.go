package core

import (
	"crypto/rand"
	"fmt"
)

// TokenLength is the number of characters in a rendezvous token
const TokenLength = 50

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateToken returns a random alphanumeric rendezvous token.
// The token names an abstract socket; knowing it is enough to connect, so it
// must not be guessable by other processes on the device.
func GenerateToken() (string, error) {
	// Largest multiple of len(alphabet) that fits in a byte; bytes above it are
	// rejected so every character is equally likely.
	const limit = 256 - 256%len(tokenAlphabet)

	token := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength*2)
	for len(token) < TokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == TokenLength {
				break
			}
		}
	}
	return string(token), nil
}

// IsValidToken reports whether s has the shape of a generated token
func IsValidToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
