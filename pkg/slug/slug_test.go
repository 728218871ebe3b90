package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain words", "Soft Skills", "soft-skills"},
		{"french accents", "Développement personnel", "developpement-personnel"},
		{"ampersand", "Travail en équipe & Management", "travail-en-equipe-et-management"},
		{"ligature", "Cœur de métier", "coeur-de-metier"},
		{"punctuation trimmed", "  Qualité, Hygiène / Sécurité!  ", "qualite-hygiene-securite"},
		{"uppercase accents", "ÉCONOMIE", "economie"},
		{"digits kept", "ISO 9001", "iso-9001"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}
