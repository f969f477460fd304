package domain

import (
	"errors"
	"strconv"
)

// ErrInvalidUserID is returned by ConversationID for non-positive inputs.
var ErrInvalidUserID = errors.New("user id must be positive")

// convSeparator joins the two sorted identifiers. User ids are rendered as
// base-10 integers, so the separator can never occur inside an identifier
// and distinct pairs can never collide on the same key.
const convSeparator = "-"

// ConversationID computes the canonical identifier for the unordered pair
// {a, b}: both ids are formatted in decimal, sorted lexicographically, and
// joined with a hyphen. The function is pure and symmetric:
// ConversationID(a, b) == ConversationID(b, a) for all pairs, including
// a == b (self-conversations are allowed).
func ConversationID(a, b int64) (string, error) {
	if a <= 0 || b <= 0 {
		return "", ErrInvalidUserID
	}
	x := strconv.FormatInt(a, 10)
	y := strconv.FormatInt(b, 10)
	if y < x {
		x, y = y, x
	}
	return x + convSeparator + y, nil
}
