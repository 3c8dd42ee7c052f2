package extractor

import (
	"net/url"
	"testing"

	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/contact/phone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestExtractor(t *testing.T) *Extractor {
	return New(phone.NewNormalizer(), "BR", logger.NewTestLogger(t))
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractor_Extract(t *testing.T) {
	ex := createTestExtractor(t)

	text := `Padaria Central
Contato: Contato@PadariaCentral.com.br ou contato@padariacentral.com.br
Fone (11) 4100-1000 | (11) 4100-1000 | (11) 0000-0000
Rua das Flores, 123 - Centro, São Paulo - SP, 01010-000
instagram.com/padariacentral
logo@2x.png`

	rec := ex.Extract(text, mustParseURL(t, "https://padariacentral.com.br/"))

	assert.Equal(t, []string{"contato@padariacentral.com.br"}, rec.Emails.Values())
	assert.Equal(t, []string{"+551141001000"}, rec.Phones.Values())
	assert.Equal(t, []string{"Rua das Flores, 123 - Centro, São Paulo - SP, 01010-000"}, rec.Addresses.Values())
	assert.Equal(t, []string{"instagram.com/padariacentral"}, rec.SocialProfiles.Values())
	assert.Empty(t, rec.Error)
}

func TestExtractor_Extract_SeedsSocialProfileFromURL(t *testing.T) {
	ex := createTestExtractor(t)

	pageURL := mustParseURL(t, "https://www.facebook.com/padariacentral")
	rec := ex.Extract("Curta nossa página", pageURL)

	assert.Equal(t, []string{"https://www.facebook.com/padariacentral"}, rec.SocialProfiles.Values())
	assert.False(t, rec.IsEmpty())
}

func TestExtractor_Extract_EmptyAndMalformedInput(t *testing.T) {
	ex := createTestExtractor(t)

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "binary noise", text: "\x00\xff\xfe@@..(((---+++"},
		{name: "prose numbers only", text: "Fundada em 1998 com 25 funcionários e 3 lojas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ex.Extract(tt.text, nil)
			assert.True(t, rec.IsEmpty())
		})
	}
}

func TestExtractor_Extract_DeduplicatesAcrossMatchers(t *testing.T) {
	ex := createTestExtractor(t)

	text := "vendas@loja.com.br vendas@loja.com.br\n+55 11 4100-1000 e (11) 4100-1000"
	rec := ex.Extract(text, nil)

	assert.Equal(t, 1, rec.Emails.Len())
	assert.Equal(t, 1, rec.Phones.Len())
}

func TestCleanEmail(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{raw: "Info@Example.COM", want: "info@example.com", valid: true},
		{raw: "contato@loja.com.br.", want: "contato@loja.com.br", valid: true},
		{raw: "icon@2x.png", valid: false},
		{raw: "someone@intranet.invalidtld", valid: false},
		{raw: "a@com", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := cleanEmail(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractor_Extract_SplitsAdjacentNumbers(t *testing.T) {
	ex := createTestExtractor(t)

	rec := ex.Extract("Tel 11 4100-1000 11 4100-2000", nil)

	assert.Equal(t, []string{"+551141001000", "+551141002000"}, rec.Phones.Values())
}

func TestExtractor_SplitRun(t *testing.T) {
	ex := createTestExtractor(t)

	tests := []struct {
		name      string
		candidate string
		expected  []string
	}{
		{name: "two spaced numbers", candidate: "11 4100-1000 11 4100-2000", expected: []string{"+551141001000", "+551141002000"}},
		{name: "leading noise group", candidate: "1998 (11) 4100-1000", expected: []string{"+551141001000"}},
		{name: "nothing valid", candidate: "12.345.678", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ex.splitRun(tt.candidate))
		})
	}
}
