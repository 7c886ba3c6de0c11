package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: "****"},
		{name: "single char", input: "a", expected: "****a"},
		{name: "short", input: "abcd", expected: "****cd"},
		{name: "long", input: "secret", expected: "****ret"},
		{name: "multibyte", input: "пароль", expected: "****оль"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskString(tt.input))
		})
	}
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "Geo Zones", NormalizeSpace("  Geo \n\t Zones "))
	assert.Equal(t, "", NormalizeSpace(" \n "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
}
