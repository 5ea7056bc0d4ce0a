package document

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// HeadingAnchor derives the in-page fragment identifier for a heading title.
// Normalization goes through the slug rules; titles the normalizer rejects
// fall back to a conservative lowercase-and-hyphenate pass so an anchor is
// always produced for a non-empty title.
func HeadingAnchor(title string) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ""
	}
	if normalized, err := slug.Normalize(trimmed); err == nil && normalized != "" {
		return normalized
	}
	return fallbackAnchor(trimmed)
}

func fallbackAnchor(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
