package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatinTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected bool
	}{
		{"Blinding Lights", true},
		{"x", true},
		{"夜に駆ける", false},
		{"Лето", false},
		{"사랑 LOVE", true},
		{"1999", false},
		{"", false},
		{"Été", true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, LatinTitle(Track{Title: tt.title}))
		})
	}
}

func TestEligibilityByName(t *testing.T) {
	f, err := EligibilityByName("latin")
	require.NoError(t, err)
	assert.False(t, f(Track{Title: "夜に駆ける"}))

	f, err = EligibilityByName("ANY")
	require.NoError(t, err)
	assert.True(t, f(Track{Title: "夜に駆ける"}))

	f, err = EligibilityByName("")
	require.NoError(t, err)
	assert.False(t, f(Track{Title: "1999"}))

	_, err = EligibilityByName("cyrillic")
	assert.Error(t, err)
}
