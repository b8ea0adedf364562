package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain national", "600112233", "600112233"},
		{"spaces", "600 11 22 33", "600112233"},
		{"hyphens and dots", "600-11.22-33", "600112233"},
		{"parentheses", "(600) 112233", "600112233"},
		{"plus country code", "+34600112233", "600112233"},
		{"bare country code", "34600112233", "600112233"},
		{"country code with spaces", "+34 600 11 22 33", "600112233"},
		{"nine digits starting with 34 kept", "346001122", "346001122"},
		{"empty", "", ""},
		{"garbage passes through", "abc", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	variants := []string{
		"600112233",
		"600 11 22 33",
		"+34600112233",
		"34 600 112 233",
		"(+34) 600-112-233",
	}
	for _, a := range variants {
		for _, b := range variants {
			assert.Equal(t, Normalize(a), Normalize(b), "%q vs %q", a, b)
		}
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "34600112233", Display("+34 600 11 22 33"))
	assert.Equal(t, "34600112233", Display("600112233"))
}
