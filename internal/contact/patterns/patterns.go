// Package patterns holds the compiled recognizers that pull contact
// candidates out of flattened page text. Every function is pure; results keep
// match order and may contain duplicates.
package patterns

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}`)

	// Permissive on purpose: prose numbers and dates match too and are
	// rejected by the phone normalizer. Adjacent numbers come back as one
	// candidate; the extractor splits them.
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(\d{1,4}\)|\d{1,5})(?:[\s.-]?\d{1,5}){1,8}`)

	usAddressPattern = regexp.MustCompile(`\b\d{1,6}\s+[\p{L}\d.' -]{2,60},\s*[\p{L}.' -]{2,40},\s*[\p{L}.' -]{2,30}?\s*,?\s*\d{5}(?:-\d{3,4})?\b`)

	brAddressPattern = regexp.MustCompile(`(?i)\b(?:rua|r\.|avenida|av\.|alameda|al\.|travessa|tv\.|praça|praca|rodovia|estrada)\s+[^,\n]{2,80},\s*\d{1,6}[^\n]{0,120}?\d{5}-?\d{3}\b`)

	socialPattern = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.|m\.|mobile\.|[a-z]{2}\.)?(?:facebook|instagram|linkedin|twitter|x|youtube|tiktok)\.com/[^\s'"<>()\[\]{}]+`)
)

// trailing punctuation that belongs to the surrounding prose
const socialTrim = ".,;:!?"

// minimum digits a phone candidate must carry to be worth normalizing
const minPhoneDigits = 8

// FindEmails returns every local@domain.tld substring.
func FindEmails(text string) []string {
	return emailPattern.FindAllString(text, -1)
}

// FindPhoneCandidates returns loosely delimited digit groups that could be a
// phone number. Candidates with fewer than eight digits are skipped.
func FindPhoneCandidates(text string) []string {
	matches := phonePattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if countDigits(m) < minPhoneDigits {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FindAddresses returns US-style and Brazilian-style street addresses. This is
// a heuristic with a high false-negative rate.
func FindAddresses(text string) []string {
	var out []string
	for _, m := range brAddressPattern.FindAllString(text, -1) {
		out = append(out, collapseSpaces(m))
	}
	for _, m := range usAddressPattern.FindAllString(text, -1) {
		out = append(out, collapseSpaces(m))
	}
	return out
}

// FindSocialProfiles returns links to a known social platform that carry a
// path segment.
func FindSocialProfiles(text string) []string {
	matches := socialPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, socialTrim)
		if !hasPathSegment(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// IsSocialProfile reports whether s as a whole is a social profile link.
func IsSocialProfile(s string) bool {
	s = strings.TrimSpace(s)
	loc := socialPattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return false
	}
	m := strings.TrimRight(s[loc[0]:loc[1]], socialTrim)
	return hasPathSegment(m) && len(strings.TrimRight(s, socialTrim)) == len(m)
}

func hasPathSegment(link string) bool {
	i := strings.Index(link, ".com/")
	if i < 0 {
		return false
	}
	rest := strings.Trim(link[i+len(".com/"):], "/")
	return rest != ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
