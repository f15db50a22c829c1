package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacterNameValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "Jita", true},
		{"with space", "CCP Garthagk", true},
		{"apostrophe and hyphen", "O'Neil Ka-Tan", true},
		{"dot", "Mr. Smith", true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 38), false},
		{"max length", strings.Repeat("a", 37), true},
		{"leading space", " Jita", false},
		{"trailing space", "Jita ", false},
		{"comma", "Jita,Amarr", false},
		{"non ascii", "Jïta", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validator().Struct(&ResolveCharacterIDInput{Name: tt.input})
			assert.Equal(t, tt.valid, err == nil, "validation error: %v", err)
		})
	}
}

func TestResolveCharacterIDsInputValidation(t *testing.T) {
	tooMany := make([]string, 251)
	for i := range tooMany {
		tooMany[i] = "Pilot"
	}

	tests := []struct {
		name  string
		names []string
		valid bool
	}{
		{"one name", []string{"Jita"}, true},
		{"several names", []string{"Jita", "CCP Garthagk"}, true},
		{"empty", []string{}, false},
		{"nil", nil, false},
		{"one bad name", []string{"Jita", "x"}, false},
		{"too many", tooMany, false},
		{"at limit", tooMany[:250], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validator().Struct(&ResolveCharacterIDsInput{Names: tt.names})
			assert.Equal(t, tt.valid, err == nil, "validation error: %v", err)
		})
	}
}
