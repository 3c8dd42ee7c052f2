// internal/models/postal.go
package models

// PostalAddress is the address registered for a Brazilian postal code (CEP).
type PostalAddress struct {
	PostalCode string `json:"postalCode"`
	Street     string `json:"street"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
}
