// Package integrity computes and verifies the tamper-evident
// fingerprint stored with every conversation turn.
//
// Canonical encoding: the UTF-8 bytes of userMessage + botResponse +
// timestamp, concatenated in that order with no separator, hashed with
// SHA-256 and rendered as 64 lowercase hex characters. Any change to
// this encoding invalidates every fingerprint already on disk, so it
// must not be altered.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/surajkumar989/NeuralSync/internal/model/chat"
)

// FingerprintLength is the rendered hex length of a SHA-256 digest.
const FingerprintLength = sha256.Size * 2

// ErrInvalidInput reports a claimed fingerprint that is not a
// well-formed lowercase hex digest. A well-formed but wrong value is
// not an error; Verify reports it as a plain mismatch.
var ErrInvalidInput = errors.New("integrity: invalid fingerprint input")

// Fingerprint returns the canonical fingerprint of a turn's inputs.
// Empty strings are valid digest input; the concatenation carries no
// delimiter, so ("ab","c",t) and ("a","bc",t) intentionally share a
// fingerprint. Stored rows were hashed this way, and compatibility
// wins over the theoretical boundary ambiguity.
func Fingerprint(userMessage, botResponse, timestamp string) string {
	h := sha256.New()
	h.Write([]byte(userMessage))
	h.Write([]byte(botResponse))
	h.Write([]byte(timestamp))
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintTurn fingerprints the triple carried by an existing turn
// record.
func FingerprintTurn(turn chat.Turn) string {
	return Fingerprint(turn.UserMessage, turn.BotResponse, turn.Timestamp)
}

// Verify recomputes the fingerprint of turn's current inputs and
// compares it to claimed. The comparison is exact and case-sensitive
// on the lowercase hex form, so a well-formed digest in the wrong case
// is a plain mismatch: (false, nil). Only a claimed value that is not
// a 64-character hex digest at all returns ErrInvalidInput.
func Verify(turn chat.Turn, claimed string) (bool, error) {
	if len(claimed) != FingerprintLength || !isHex(claimed) {
		return false, ErrInvalidInput
	}
	return FingerprintTurn(turn) == claimed, nil
}

// WellFormed reports whether s has the shape of a canonical
// fingerprint: exactly 64 lowercase hex characters.
func WellFormed(s string) bool {
	if len(s) != FingerprintLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// isHex reports whether s is hex of either case.
func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
