package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescreen/internal/screening/models"
)

func TestNormalize(t *testing.T) {
	n := New()
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"simple", "John Doe", []string{"john", "doe"}},
		{"surrounding symbols", `  "*Doe, John*"  `, []string{"doe", "john"}},
		{"token punctuation", "Doe, John | Jr.", []string{"doe", "john", "jr."}},
		{"interior hyphen kept", "Jean-Luc Picard", []string{"jean-luc", "picard"}},
		{"collapses whitespace", "Marie\t\n  Curie", []string{"marie", "curie"}},
		{"full width compatibility forms", "ＡＣＭＥ Corp", []string{"acme", "corp"}},
		{"arabic passes through", "محمد علي", []string{"محمد", "علي"}},
		{"single token allowed when not strict", "Acme", []string{"acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_EmptyNames(t *testing.T) {
	n := New()
	for _, raw := range []string{"", "   ", `"-*-"`, "$$ %% &&"} {
		_, err := n.Normalize(raw)
		require.Error(t, err, "raw=%q", raw)
		assert.True(t, models.IsKind(err, models.KindInvalidName))
	}
}

func TestNormalize_StrictLength(t *testing.T) {
	n := New(WithStrictLength(true))
	assert.True(t, n.StrictLength())

	_, err := n.Normalize("Acme")
	assert.True(t, models.IsKind(err, models.KindInvalidName))

	_, err = n.Normalize(strings.Repeat("x ", 31))
	assert.True(t, models.IsKind(err, models.KindInvalidName))

	tokens, err := n.Normalize(strings.Repeat("x ", 30))
	require.NoError(t, err)
	assert.Len(t, tokens, 30)

	tokens, err = n.Normalize("Acme Corp")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func TestTokens_DefersLengthCheck(t *testing.T) {
	n := New(WithStrictLength(true))

	tokens, err := n.Tokens("Acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, tokens)
	assert.True(t, models.IsKind(n.CheckLength(tokens), models.KindInvalidName))
	assert.NoError(t, n.CheckLength([]string{"acme", "corp"}))
	assert.NoError(t, New().CheckLength(tokens))

	_, err = n.Tokens("  ")
	assert.True(t, models.IsKind(err, models.KindInvalidName))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New()
	for _, raw := range []string{
		"John Doe",
		`"Doe, John"`,
		"  ＪＡＮＥ   danald*  ",
		"Société Générale S.A.",
		"محمد بن سلمان",
	} {
		first, err := n.Normalize(raw)
		require.NoError(t, err)
		second, err := n.NormalizeTokens(first)
		require.NoError(t, err)
		assert.Equal(t, first, second, "raw=%q", raw)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New()
	a, err := n.Normalize("Jane Danald")
	require.NoError(t, err)
	b, err := n.Normalize("Jane Danald")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
