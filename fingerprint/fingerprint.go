// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrEmptyOrigin is returned when no origin address is available to hash.
var ErrEmptyOrigin = errors.New("origin address is empty")

// Hash derives the voter fingerprint for a network origin: HMAC-SHA256 of
// the origin under a fixed server-side salt. Deterministic, one-way, and
// fixed-length; the salt keeps raw addresses out of rainbow-table reach.
func Hash(origin, salt string) (string, error) {
	if origin == "" {
		return "", ErrEmptyOrigin
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(origin))
	sum := h.Sum(nil)
	// First 8 bytes (16 hex chars) - enough for deduplication.
	return hex.EncodeToString(sum[:8]), nil
}
