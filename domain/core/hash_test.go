package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHash(t *testing.T) {
	h := NewHash([]byte("hello"))
	sum := sha256.Sum256([]byte("hello"))

	assert.Equal(t, hex.EncodeToString(sum[:]), h.String())
	assert.False(t, h.IsEmpty())
	assert.True(t, h.Equals(NewHash([]byte("hello"))))
	assert.False(t, h.Equals(NewHash([]byte("world"))))
}

func TestCanonicalOptions(t *testing.T) {
	opts := CanonicalOptions{Delimiter: ";", SkipEmptyLines: false}
	assert.Equal(t, "delimiter=;;skipEmptyLines=false", opts.Canonical())

	opts = CanonicalOptions{Delimiter: ",", SkipEmptyLines: true}
	assert.Equal(t, "delimiter=,;skipEmptyLines=true", opts.Canonical())
}

func TestNewFingerprintConstruction(t *testing.T) {
	content := []byte("a,b\n1,2\n")
	opts := CanonicalOptions{Delimiter: ",", SkipEmptyLines: true}

	// Double hash: sha256 of "<contentHash>|<canonical>"
	inner := NewHash(content)
	expected := NewHash([]byte(fmt.Sprintf("%s|%s", inner, opts.Canonical())))

	assert.Equal(t, Fingerprint(expected), NewFingerprint(content, opts))
}

func TestFingerprintDistinguishesOptions(t *testing.T) {
	content := []byte("a,b\n1,2\n")

	fp1 := NewFingerprint(content, CanonicalOptions{Delimiter: ",", SkipEmptyLines: true})
	fp2 := NewFingerprint(content, CanonicalOptions{Delimiter: ",", SkipEmptyLines: false})
	fp3 := NewFingerprint(content, CanonicalOptions{Delimiter: "\t", SkipEmptyLines: true})

	assert.NotEqual(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
	assert.NotEqual(t, fp2, fp3)
}
