package fileutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used when a title has no usable characters.
const DefaultSlug = "report"

// maxSlugLength keeps download names well under filesystem limits.
const maxSlugLength = 80

// Slugify turns a title into a safe file base name.
// Accents are folded ("Énergie" -> "energie"), anything that is not a letter or
// digit becomes a single hyphen, and the result is lowercase.
func Slugify(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := sb.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(truncateRunes(slug, maxSlugLength), "-")
	}
	if slug == "" {
		return DefaultSlug
	}
	return slug
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
