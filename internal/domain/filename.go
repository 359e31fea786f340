package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeFileName turns an arbitrary display name into a portable file name.
// Accents are folded to their base letters, anything outside [A-Za-z0-9._-]
// becomes "_". Returns "" when nothing usable remains.
func SanitizeFileName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if strings.Trim(out, "_") == "" {
		return ""
	}
	return out
}

// SafeDirName replaces path separators so name can be used as a single path
// segment. Other characters are left alone.
func SafeDirName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_")
	out := strings.TrimSpace(r.Replace(name))
	if out == "" || out == "." || out == ".." {
		return "_"
	}
	return out
}
