package phone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Normalize_Valid(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name          string
		candidate     string
		region        string
		international string
	}{
		{
			name:          "sao paulo landline without country code",
			candidate:     "(11) 4100-1000",
			region:        "BR",
			international: "+551141001000",
		},
		{
			name:          "curitiba mobile with country code",
			candidate:     "+55 41 99795-9399",
			region:        "BR",
			international: "+5541997959399",
		},
		{
			name:          "lowercase region",
			candidate:     "(11) 4100-2000",
			region:        "br",
			international: "+551141002000",
		},
		{
			name:          "country code overrides default region",
			candidate:     "+1 650-253-0000",
			region:        "BR",
			international: "+16502530000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.candidate, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.international, got.International)
			assert.NotEmpty(t, got.National)
		})
	}
}

func TestNormalizer_Normalize_Rejections(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name      string
		candidate string
		reason    Reason
	}{
		{name: "empty", candidate: "   ", reason: ReasonParseError},
		{name: "not a number", candidate: "call us", reason: ReasonParseError},
		{name: "invalid subscriber number", candidate: "(11) 0000-0000", reason: ReasonInvalidNumber},
		{name: "too short", candidate: "1234-5678", reason: ReasonInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.candidate, "BR")
			require.Error(t, err)

			var rej *RejectionError
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.reason, rej.Reason)
		})
	}
}

func TestNormalizer_Normalize_IdempotentOnInternational(t *testing.T) {
	n := NewNormalizer()

	for _, candidate := range []string{"(11) 4100-1000", "+55 41 99795-9399", "41 3333-4444"} {
		first, err := n.Normalize(candidate, "BR")
		require.NoError(t, err)

		second, err := n.Normalize(first.International, "BR")
		require.NoError(t, err)
		assert.Equal(t, first.International, second.International)
	}
}
