// Package extractor turns fetched pages into contact records and runs the
// deep-scan fallback over a site's likely contact pages.
package extractor

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/common/metrics"
	"contact-harvester/internal/contact/patterns"
	"contact-harvester/internal/contact/phone"
	"contact-harvester/internal/models"

	"golang.org/x/net/publicsuffix"
)

// PhoneNormalizer validates a phone candidate for a default region.
type PhoneNormalizer interface {
	Normalize(candidate, defaultRegion string) (phone.Number, error)
}

// Extractor runs the pattern library over page text. It holds no per-page
// state and is safe for concurrent use.
type Extractor struct {
	normalizer    PhoneNormalizer
	defaultRegion string
	logger        logger.Logger
}

func New(normalizer PhoneNormalizer, defaultRegion string, log logger.Logger) *Extractor {
	return &Extractor{
		normalizer:    normalizer,
		defaultRegion: defaultRegion,
		logger:        log.WithFields(map[string]interface{}{"component": "extractor"}),
	}
}

// ExtractPage flattens an HTML body and extracts from it.
func (e *Extractor) ExtractPage(body string, pageURL *url.URL) models.ContactRecord {
	return e.Extract(PageText(body), pageURL)
}

// Extract builds the contact record for one page. Invalid candidates are
// dropped; malformed input yields an empty record, never a panic.
func (e *Extractor) Extract(pageText string, pageURL *url.URL) (record models.ContactRecord) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extraction aborted", map[string]interface{}{
				"url":   urlString(pageURL),
				"panic": fmt.Sprint(r),
			})
			record = models.ContactRecord{}
		}
	}()

	if pageURL != nil && patterns.IsSocialProfile(pageURL.String()) {
		record.SocialProfiles.Add(pageURL.String())
	}

	for _, raw := range patterns.FindEmails(pageText) {
		if email, ok := cleanEmail(raw); ok {
			record.Emails.Add(email)
		}
	}

	for _, candidate := range patterns.FindPhoneCandidates(pageText) {
		num, err := e.normalizer.Normalize(candidate, e.defaultRegion)
		if err != nil {
			e.recordRejection(candidate, err)
			for _, n := range e.splitRun(candidate) {
				record.Phones.Add(n)
			}
			continue
		}
		record.Phones.Add(num.International)
	}

	for _, addr := range patterns.FindAddresses(pageText) {
		record.Addresses.Add(strings.TrimSpace(addr))
	}

	for _, profile := range patterns.FindSocialProfiles(pageText) {
		record.SocialProfiles.Add(profile)
	}

	return record
}

func (e *Extractor) recordRejection(candidate string, err error) {
	reason := "UNKNOWN"
	var rej *phone.RejectionError
	if errors.As(err, &rej) {
		reason = string(rej.Reason)
	}
	metrics.PhoneRejections.WithLabelValues(reason).Inc()
	e.logger.Debug("phone candidate rejected", map[string]interface{}{
		"candidate": candidate,
		"reason":    reason,
	})
}

var phoneGroup = regexp.MustCompile(`\+?\(?\d+\)?`)

// splitRun recovers the numbers of a rejected candidate that ran several
// phones together, as in "11 4100-1000 11 4100-2000". At each digit group the
// longest run of groups that validates wins; groups that start no valid run
// are skipped.
func (e *Extractor) splitRun(candidate string) []string {
	groups := phoneGroup.FindAllStringIndex(candidate, -1)
	var found []string
	for i := 0; i < len(groups); {
		next := i + 1
		for j := len(groups); j > i; j-- {
			if i == 0 && j == len(groups) {
				continue
			}
			part := candidate[groups[i][0]:groups[j-1][1]]
			if digitCount(part) < 8 {
				break
			}
			if num, err := e.normalizer.Normalize(part, e.defaultRegion); err == nil {
				found = append(found, num.International)
				next = j
				break
			}
		}
		i = next
	}
	return found
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// asset names that look like addresses, e.g. logo@2x.png
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}

// cleanEmail lowercases a match and keeps it only when it parses as an
// address and its domain ends in an ICANN public suffix.
func cleanEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), ".-"))
	if email == "" {
		return "", false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	domain := email[at+1:]

	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return "", false
		}
	}

	if suffix, icann := publicsuffix.PublicSuffix(domain); !icann || suffix == domain {
		return "", false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return "", false
	}
	return email, true
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
