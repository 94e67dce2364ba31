package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "identical", a: "stay", b: "stay", expected: 100},
		{name: "both empty", a: "", b: "", expected: 100},
		{name: "one empty", a: "stay", b: "", expected: 0},
		{name: "disjoint", a: "abc", b: "xyz", expected: 0},
		{name: "one char missing", a: "blinding lights", b: "blinding light", expected: 97},
		{name: "misspelled ending", a: "blinding lights", b: "blinding lite", expected: 86},
		{name: "one substituted char", a: "stay", b: "stey", expected: 75},
		{name: "different accented letters", a: "é", b: "è", expected: 0},
		{name: "different cyrillic letters", a: "я", b: "ю", expected: 0},
		{name: "disjoint cyrillic", a: "абв", b: "где", expected: 0},
		{name: "accent dropped", a: "café", b: "cafe", expected: 75},
		{name: "identical cyrillic", a: "ангел", b: "ангел", expected: 100},
		{name: "accents swapped", a: "déjà vu", b: "dèjá vu", expected: 71},
		{name: "cyrillic one char missing", a: "кино", b: "кин", expected: 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ratio(tt.a, tt.b))
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"blinding lights", "blinding lite"},
		{"stay", "stey"},
		{"hello", ""},
		{"abc", "cba"},
		{"don t stop me now", "dont stop me now"},
		{"café", "cafe"},
		{"straße", "strasse"},
		{"déjà vu", "dèjá vu"},
		{"ангел", "ангелы"},
		{"é", ""},
	}

	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "pair %q / %q", p[0], p[1])
	}
}

func TestRatio_DecreasesWithEdits(t *testing.T) {
	exact := Ratio("hello", "hello")
	oneEdit := Ratio("hello", "hallo")
	twoEdits := Ratio("hello", "hxllx")

	assert.Equal(t, 100, exact)
	assert.Equal(t, 80, oneEdit)
	assert.Equal(t, 60, twoEdits)
}
