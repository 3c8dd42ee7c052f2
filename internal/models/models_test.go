package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSet(t *testing.T) {
	s := NewStringSet("b@x.com", "", "a@x.com", "b@x.com")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"b@x.com", "a@x.com"}, s.Values())
	assert.True(t, s.Contains("a@x.com"))
	assert.False(t, s.Contains(""))

	assert.False(t, s.Add("a@x.com"))
	assert.True(t, s.Add("c@x.com"))

	values := s.Values()
	values[0] = "mutated"
	assert.Equal(t, "b@x.com", s.Values()[0])
}

func TestStringSet_ZeroValue(t *testing.T) {
	var s StringSet
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("x"))
	assert.Equal(t, []string{}, s.Values())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStringSet_JSON(t *testing.T) {
	var s StringSet
	require.NoError(t, json.Unmarshal([]byte(`["+5511","+5511","+5521"]`), &s))
	assert.Equal(t, []string{"+5511", "+5521"}, s.Values())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `["+5511","+5521"]`, string(data))
}

func TestContactRecord_Merge(t *testing.T) {
	a := ContactRecord{
		Emails: NewStringSet("a@x.com"),
		Phones: NewStringSet("+551141001000"),
	}
	b := ContactRecord{
		Emails:         NewStringSet("b@x.com", "a@x.com"),
		SocialProfiles: NewStringSet("https://instagram.com/padaria"),
	}

	merged := a.Merge(b)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, merged.Emails.Values())
	assert.Equal(t, []string{"+551141001000"}, merged.Phones.Values())
	assert.Equal(t, []string{"https://instagram.com/padaria"}, merged.SocialProfiles.Values())
	assert.Equal(t, 1, a.Emails.Len(), "inputs are not modified")
	assert.Equal(t, 2, b.Emails.Len())
}

func TestContactRecord_IsEmpty(t *testing.T) {
	assert.True(t, ContactRecord{}.IsEmpty())
	assert.True(t, FailedRecord("FETCH_FAILURE").IsEmpty())
	assert.False(t, ContactRecord{Addresses: NewStringSet("Rua A, 10")}.IsEmpty())
}

func TestContactRecord_JSON(t *testing.T) {
	data, err := json.Marshal(FailedRecord("FETCH_FAILURE"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"emails":[],"phones":[],"addresses":[],"social_media_profiles":[],"error":"FETCH_FAILURE"}`, string(data))
}

func TestKnowledgePanel_IsZero(t *testing.T) {
	var nilPanel *KnowledgePanel
	assert.True(t, nilPanel.IsZero())
	assert.True(t, (&KnowledgePanel{}).IsZero())
	assert.False(t, (&KnowledgePanel{Hours: "domingo Fechado"}).IsZero())
}
