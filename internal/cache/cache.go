// SPDX-License-Identifier: MPL-2.0

// Package cache implements the content-addressable identity scheme behind
// boxcar's "skip if unchanged" behavior. Every task's result is committed as a
// container image whose tag is derived from everything that can influence the
// task's output; identical inputs always produce the identical tag.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Version is folded into every derived key as the first ingredient.
// Bump it to invalidate all existing caches (e.g., after changing the
// derivation scheme itself).
const Version = 0

// Hash returns the lowercase hex SHA-256 digest of s.
// Guarantees:
//  1. For all x, Hash(x) == Hash(x).
//  2. For all known x and y, x != y implies Hash(x) != Hash(y).
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Combine folds two strings into one digest: Hash(Hash(x) + Hash(y)).
// Hashing each operand before concatenating makes the fold boundary-safe:
// Combine("foo", "bar") and Combine("foob", "ar") differ.
// Guarantees:
//  1. For all x and y, Combine(x, y) == Combine(x, y).
//  2. For all known x1 != x2, Combine(x1, y) != Combine(x2, y).
//  3. For all known y1 != y2, Combine(x, y1) != Combine(x, y2).
func Combine(x, y string) string {
	return Hash(Hash(x) + Hash(y))
}

// HashReader streams r through SHA-256 and returns the hex digest.
// The data is never held in memory all at once, so it is safe for
// arbitrarily large files. Guarantees are the same as Hash.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// seed returns the initial running key: the hash of the cache format version.
func seed() string {
	return Hash(fmt.Sprintf("%d", Version))
}
