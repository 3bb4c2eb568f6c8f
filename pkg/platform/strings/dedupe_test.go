package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	cases := map[string]struct {
		in   []string
		want []string
	}{
		"nil stays nil":          {in: nil, want: nil},
		"language codes folded":  {in: []string{" EN", "fr", "en ", "Fr"}, want: []string{"en", "fr"}},
		"blank entries dropped":  {in: []string{"", "  ", "ja"}, want: []string{"ja"}},
		"first occurrence leads": {in: []string{"ES", "en", "es"}, want: []string{"es", "en"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, DedupeAndTrimLower(tc.in))
		})
	}
}
