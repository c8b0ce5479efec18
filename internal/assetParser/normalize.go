package assetParser

import (
	"strings"
	"unicode"
)

const allowedPunctuation = ".,+-$%()[]{}:;"

// NormalizeLine trims the line, drops characters outside ASCII letters, digits, whitespace
// and allowedPunctuation, and collapses whitespace runs into single spaces.
func NormalizeLine(line string) string {
	var sb strings.Builder
	sb.Grow(len(line))

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		case r < unicode.MaxASCII && (isASCIILetter(r) || isASCIIDigit(r) || strings.ContainsRune(allowedPunctuation, r)):
			sb.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// Normalize splits text into lines and normalizes each one, discarding lines left empty.
func Normalize(text string) []string {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))

	for _, raw := range rawLines {
		line := NormalizeLine(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
