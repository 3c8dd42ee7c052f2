// internal/models/contact.go
package models

// ContactRecord is the deduplicated contact data extracted from one page.
// Phones hold canonical E.164 numbers only. Error carries the error code of a
// task that could not produce data; such records are always empty.
type ContactRecord struct {
	Emails         StringSet `json:"emails"`
	Phones         StringSet `json:"phones"`
	Addresses      StringSet `json:"addresses"`
	SocialProfiles StringSet `json:"social_media_profiles"`
	Error          string    `json:"error,omitempty"`
}

// IsEmpty reports whether all four contact fields are empty.
func (r ContactRecord) IsEmpty() bool {
	return r.Emails.Len() == 0 &&
		r.Phones.Len() == 0 &&
		r.Addresses.Len() == 0 &&
		r.SocialProfiles.Len() == 0
}

// Merge returns the field-wise union of r and other. Neither input is modified.
func (r ContactRecord) Merge(other ContactRecord) ContactRecord {
	return ContactRecord{
		Emails:         r.Emails.Union(other.Emails),
		Phones:         r.Phones.Union(other.Phones),
		Addresses:      r.Addresses.Union(other.Addresses),
		SocialProfiles: r.SocialProfiles.Union(other.SocialProfiles),
	}
}

// FailedRecord returns an empty record tagged with an error code.
func FailedRecord(code string) ContactRecord {
	return ContactRecord{Error: code}
}

// ConsolidatedRecord is the single best-guess contact record for a query.
type ConsolidatedRecord struct {
	Email          string            `json:"email,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Address        string            `json:"address,omitempty"`
	SocialProfiles []string          `json:"social_media_profiles"`
	Hours          map[string]string `json:"hours,omitempty"`
}
