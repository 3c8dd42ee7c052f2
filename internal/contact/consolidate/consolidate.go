// Package consolidate folds the per-page contact records of a query into a
// single best-guess record.
package consolidate

import (
	"strings"

	"contact-harvester/internal/contact/phone"
	"contact-harvester/internal/models"
)

type PhoneNormalizer interface {
	Normalize(candidate, defaultRegion string) (phone.Number, error)
}

// Consolidator picks one email, phone and address per query. Knowledge-panel
// values win; otherwise the most frequent per-page value is chosen, ties going
// to the value seen first.
type Consolidator struct {
	normalizer    PhoneNormalizer
	defaultRegion string
}

func New(normalizer PhoneNormalizer, defaultRegion string) *Consolidator {
	return &Consolidator{normalizer: normalizer, defaultRegion: defaultRegion}
}

// Consolidate merges records, which must be in result order. kp may be nil.
func (c *Consolidator) Consolidate(kp *models.KnowledgePanel, records []models.ContactRecord) models.ConsolidatedRecord {
	emails := newTally()
	phones := newTally()
	addresses := newTally()
	social := models.NewStringSet()

	for _, r := range records {
		emails.addAll(r.Emails.Values())
		phones.addAll(r.Phones.Values())
		addresses.addAll(r.Addresses.Values())
		for _, s := range r.SocialProfiles.Values() {
			social.Add(s)
		}
	}

	out := models.ConsolidatedRecord{
		Email:   emails.winner(),
		Phone:   phones.winner(),
		Address: addresses.winner(),
	}

	if kp != nil {
		if v := strings.TrimSpace(kp.Address); v != "" {
			out.Address = v
		}
		if v := strings.TrimSpace(kp.Phone); v != "" {
			out.Phone = c.panelPhone(v)
		}
		for _, s := range kp.SocialProfiles {
			social.Add(strings.TrimSpace(s))
		}
		out.Hours = ParseHours(kp.Hours)
	}

	out.SocialProfiles = social.Values()
	return out
}

// panelPhone returns the E.164 form of a panel phone, or the raw text when it
// does not validate.
func (c *Consolidator) panelPhone(raw string) string {
	if c.normalizer == nil {
		return raw
	}
	n, err := c.normalizer.Normalize(raw, c.defaultRegion)
	if err != nil {
		return raw
	}
	return n.International
}

// tally counts occurrences while remembering first-seen order.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) addAll(values []string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := t.counts[v]; !ok {
			t.order = append(t.order, v)
		}
		t.counts[v]++
	}
}

func (t *tally) winner() string {
	best, bestCount := "", 0
	for _, v := range t.order {
		if c := t.counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}
