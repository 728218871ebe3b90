package slug

import (
	"regexp"
	"strings"
)

// frenchToASCII folds accented Latin letters used in French to plain ASCII
var frenchToASCII = map[rune]string{
	'à': "a", 'â': "a", 'ä': "a", 'á': "a", 'ã': "a",
	'ç': "c",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'î': "i", 'ï': "i", 'í': "i",
	'ô': "o", 'ö': "o", 'ó': "o",
	'ù': "u", 'û': "u", 'ü': "u", 'ú': "u",
	'ÿ': "y",
	'ñ': "n",
	'œ': "oe", 'æ': "ae",
	'&': " et ",
}

var (
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate builds a URL-friendly slug from a category name.
// Example: "Travail en équipe & Management" -> "travail-en-equipe-et-management"
func Generate(name string) string {
	var result strings.Builder
	for _, char := range strings.ToLower(name) {
		if ascii, exists := frenchToASCII[char]; exists {
			result.WriteString(ascii)
		} else {
			result.WriteRune(char)
		}
	}

	slug := nonAlnumRegex.ReplaceAllString(result.String(), "-")
	return strings.Trim(slug, "-")
}
