// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Request headers carrying the caller identity
const (
	HeaderCallerAddress = "X-Caller-Address"
	HeaderCallerKey     = "X-Caller-Key"
)

var (
	ErrInvalidCallerKey = errors.New("invalid caller key")
	ErrMissingCaller    = errors.New("caller address and key required")
)

// NormalizeAddress canonicalizes an identity so "0xAbC " and "0xabc" are the
// same caller.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// GenerateCallerKey creates an HMAC-based key proving control of an address
// This is deterministic and verifiable
func GenerateCallerKey(address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(NormalizeAddress(address)))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateCallerKey checks if the provided key is valid for the address
func ValidateCallerKey(address, key, salt string) error {
	expected := GenerateCallerKey(address, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidCallerKey
	}
	return nil
}

// CallerFromRequest resolves and authenticates the caller of r.
// Returns the normalized address.
func CallerFromRequest(r *http.Request, salt string) (string, error) {
	address := NormalizeAddress(r.Header.Get(HeaderCallerAddress))
	key := r.Header.Get(HeaderCallerKey)
	if address == "" || key == "" {
		return "", ErrMissingCaller
	}
	if err := ValidateCallerKey(address, key, salt); err != nil {
		return "", err
	}
	return address, nil
}
