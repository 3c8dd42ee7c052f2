// Package phone validates phone candidates against a region and formats them.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Reason says why a candidate was rejected.
type Reason string

const (
	ReasonParseError    Reason = "PARSE_ERROR"
	ReasonInvalidNumber Reason = "INVALID_NUMBER"
)

// RejectionError is returned for candidates that are not usable phone numbers.
type RejectionError struct {
	Candidate string
	Reason    Reason
	cause     error
}

func (e *RejectionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("phone %q rejected: %s: %v", e.Candidate, e.Reason, e.cause)
	}
	return fmt.Sprintf("phone %q rejected: %s", e.Candidate, e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.cause
}

// Number is a validated phone number. International is the E.164 form used
// as the dedup and voting key; National is for display.
type Number struct {
	International string `json:"international"`
	National      string `json:"national"`
}

// Normalizer parses and validates phone candidates. The zero value is ready
// to use and it is safe for concurrent use.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses candidate, defaulting to defaultRegion (ISO 3166-1
// alpha-2) when it has no country calling code.
func (n *Normalizer) Normalize(candidate, defaultRegion string) (Number, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return Number{}, &RejectionError{Candidate: candidate, Reason: ReasonParseError}
	}

	num, err := phonenumbers.Parse(candidate, strings.ToUpper(defaultRegion))
	if err != nil {
		return Number{}, &RejectionError{Candidate: candidate, Reason: ReasonParseError, cause: err}
	}
	if !phonenumbers.IsValidNumber(num) {
		return Number{}, &RejectionError{Candidate: candidate, Reason: ReasonInvalidNumber}
	}

	return Number{
		International: phonenumbers.Format(num, phonenumbers.E164),
		National:      phonenumbers.Format(num, phonenumbers.NATIONAL),
	}, nil
}
