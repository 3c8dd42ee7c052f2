// internal/models/stringset.go
package models

import "encoding/json"

// StringSet is a deduplicated set of strings that remembers insertion order.
// The empty string is never stored.
type StringSet struct {
	items []string
	index map[string]struct{}
}

// NewStringSet builds a set from values, skipping empties and duplicates.
func NewStringSet(values ...string) StringSet {
	var s StringSet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s *StringSet) Add(v string) bool {
	if v == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s StringSet) Contains(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s StringSet) Len() int {
	return len(s.items)
}

// Values returns a copy of the members in insertion order.
func (s StringSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Union returns a new set holding the members of s followed by the new members of other.
func (s StringSet) Union(other StringSet) StringSet {
	out := NewStringSet(s.items...)
	for _, v := range other.items {
		out.Add(v)
	}
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}
