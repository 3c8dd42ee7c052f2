// internal/models/search.go
package models

// SearchResult is one organic entry of a results page. Link is empty when the
// entry carried no usable link.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link,omitempty"`
	Snippet string `json:"snippet"`
}

// KnowledgePanel is the structured summary box for a recognized business.
// Empty fields were not present on the page.
type KnowledgePanel struct {
	Title          string   `json:"title,omitempty"`
	Rating         string   `json:"rating,omitempty"`
	ReviewCount    string   `json:"review_count,omitempty"`
	PriceTier      string   `json:"price_tier,omitempty"`
	Description    string   `json:"description,omitempty"`
	Address        string   `json:"address,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Hours          string   `json:"hours,omitempty"`
	SocialProfiles []string `json:"social_media_profiles,omitempty"`
}

// IsZero reports whether no field of the panel was found.
func (k *KnowledgePanel) IsZero() bool {
	return k == nil || (k.Title == "" && k.Rating == "" && k.ReviewCount == "" &&
		k.PriceTier == "" && k.Description == "" && k.Address == "" &&
		k.Phone == "" && k.Hours == "" && len(k.SocialProfiles) == 0)
}

// SearchPage is everything harvested from one results page.
type SearchPage struct {
	Query          string          `json:"query"`
	URL            string          `json:"url"`
	KnowledgePanel *KnowledgePanel `json:"knowledge_graph"`
	Results        []SearchResult  `json:"results"`
}

// HarvestResult pairs every organic result with the contact record extracted
// from it: ContactRecords[i] belongs to Results[i].
type HarvestResult struct {
	Query          string          `json:"query"`
	KnowledgePanel *KnowledgePanel `json:"knowledge_graph"`
	Results        []SearchResult  `json:"results"`
	ContactRecords []ContactRecord `json:"contact_records"`
}

// QueryOutput is the document emitted once per query.
type QueryOutput struct {
	KnowledgeGraph          *KnowledgePanel    `json:"knowledge_graph"`
	ConsolidatedContactInfo ConsolidatedRecord `json:"consolidated_contact_info"`
}
