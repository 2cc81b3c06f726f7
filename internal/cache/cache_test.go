// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"strings"
	"testing"
)

func TestHashPure(t *testing.T) {
	t.Parallel()

	if Hash("foo") != Hash("foo") {
		t.Error("Hash is not deterministic")
	}
}

func TestHashNotConstant(t *testing.T) {
	t.Parallel()

	if Hash("foo") == Hash("bar") {
		t.Error("Hash collides on distinct inputs")
	}
}

func TestHashIsLowercaseHex(t *testing.T) {
	t.Parallel()

	h := Hash("foo")
	if len(h) != 64 {
		t.Fatalf("Hash length = %d, want 64", len(h))
	}
	for _, c := range h {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("Hash %q contains non-hex character %q", h, c)
		}
	}
}

func TestCombinePure(t *testing.T) {
	t.Parallel()

	if Combine("foo", "bar") != Combine("foo", "bar") {
		t.Error("Combine is not deterministic")
	}
}

func TestCombineFirstDifferent(t *testing.T) {
	t.Parallel()

	if Combine("foo", "bar") == Combine("baz", "bar") {
		t.Error("Combine is insensitive to its first operand")
	}
}

func TestCombineSecondDifferent(t *testing.T) {
	t.Parallel()

	if Combine("foo", "bar") == Combine("foo", "baz") {
		t.Error("Combine is insensitive to its second operand")
	}
}

// Hashing each operand before concatenating keeps the operand boundary part of
// the digest.
func TestCombineBoundary(t *testing.T) {
	t.Parallel()

	if Combine("foo", "bar") == Combine("foob", "ar") {
		t.Error("Combine ignores the operand boundary")
	}
}

func TestHashReader(t *testing.T) {
	t.Parallel()

	h1, err := HashReader(strings.NewReader("foo"))
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}
	h2, err := HashReader(strings.NewReader("foo"))
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}
	if h1 != h2 {
		t.Error("HashReader is not deterministic")
	}
	if h1 != Hash("foo") {
		t.Error("HashReader disagrees with Hash on the same bytes")
	}

	h3, err := HashReader(strings.NewReader("bar"))
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}
	if h1 == h3 {
		t.Error("HashReader collides on distinct inputs")
	}
}
