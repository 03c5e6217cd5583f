package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// DigestLength is the hex length of every digest (SHA-256).
const DigestLength = 64

// Scheme selects how a projection is canonicalized before hashing.
type Scheme int

const (
	// SchemeLegacy serializes the projection, sorts the serialized string's
	// characters by code point and hashes the result. Sorting characters
	// instead of keys makes the digest insensitive to field declaration
	// order, at the cost of colliding any two projections with the same
	// character multiset. Kept as the default for compatibility with
	// digests already persisted and exchanged on the network.
	SchemeLegacy Scheme = iota

	// SchemeCanonical hashes the sorted-key serialization directly. Not
	// interoperable with legacy digests; opt-in for new deployments.
	SchemeCanonical
)

// ParseScheme maps a configuration value to a Scheme. Anything other than
// "canonical" falls back to legacy.
func ParseScheme(name string) Scheme {
	if strings.EqualFold(name, "canonical") {
		return SchemeCanonical
	}
	return SchemeLegacy
}

// Hasher turns projections into lowercase hex digests. Deterministic, no I/O.
type Hasher struct {
	scheme Scheme
}

func NewHasher(scheme Scheme) *Hasher {
	return &Hasher{scheme: scheme}
}

// Digest computes the digest of a projection under the hasher's scheme.
func (h *Hasher) Digest(p Projection) string {
	serialized := serialize(p)
	if h.scheme == SchemeLegacy {
		serialized = sortCharacters(serialized)
	}
	sum := sha256.Sum256([]byte(serialized))
	return hex.EncodeToString(sum[:])
}

// HashOf projects v and digests the result.
func (h *Hasher) HashOf(v Hashable) string {
	return h.Digest(Project(v))
}

// serialize renders the projection as key=value lines with sorted keys. The
// key sort keeps the canonical scheme stable; the legacy scheme destroys
// ordering anyway.
func serialize(p Projection) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(p[k])
		b.WriteString("\n")
	}
	return b.String()
}

func sortCharacters(s string) string {
	runes := []rune(s)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}
