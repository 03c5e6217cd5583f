package hashing

import (
	"errors"
	"fmt"
)

// HashMismatchError reports a digest that does not match the recomputed one.
// Callers must reject the candidate; this is the primary tamper defense and
// is never downgraded to a warning.
type HashMismatchError struct {
	Asserted string
	Computed string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch: asserted %s, computed %s", e.Asserted, e.Computed)
}

// IsHashMismatch reports whether err is (or wraps) a HashMismatchError.
func IsHashMismatch(err error) bool {
	var hme *HashMismatchError
	return errors.As(err, &hme)
}

// Verifier recomputes digests for candidate objects and compares them against
// the digest the candidate asserts about itself.
type Verifier struct {
	hasher *Hasher
}

func NewVerifier(hasher *Hasher) *Verifier {
	return &Verifier{hasher: hasher}
}

// Verify recomputes the digest for v and compares it byte-for-byte with
// asserted. A digest of the wrong length can never match and fails
// immediately. On success there is no side effect; the caller proceeds to
// persistence.
func (ver *Verifier) Verify(v Hashable, asserted string) error {
	computed := ver.hasher.HashOf(v)
	if len(asserted) != DigestLength || asserted != computed {
		return &HashMismatchError{Asserted: asserted, Computed: computed}
	}
	return nil
}
