package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Hash represents a sha256 hash in hex form
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint addresses a (content, options) pair in the result cache
type Fingerprint Hash

func (f Fingerprint) String() string { return Hash(f).String() }

// CanonicalOptions is the fixed set of options that participate in the
// fingerprint. Sampling and cache toggles are excluded: the orchestrator
// only consults the cache for non-sampled analyses, so they cannot change
// a cached result.
type CanonicalOptions struct {
	Delimiter      string
	SkipEmptyLines bool
}

// Canonical serializes the options in fixed key order
func (o CanonicalOptions) Canonical() string {
	var b strings.Builder
	b.WriteString("delimiter=")
	b.WriteString(o.Delimiter)
	b.WriteString(";skipEmptyLines=")
	b.WriteString(strconv.FormatBool(o.SkipEmptyLines))
	return b.String()
}

// NewFingerprint computes the cache fingerprint for content plus options:
// sha256( sha256(content) + "|" + canonical(options) )
func NewFingerprint(content []byte, opts CanonicalOptions) Fingerprint {
	contentHash := NewHash(content)
	combined := fmt.Sprintf("%s|%s", contentHash, opts.Canonical())
	return Fingerprint(NewHash([]byte(combined)))
}
