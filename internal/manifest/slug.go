package manifest

import (
	"strings"
	"unicode"
)

// citationTitleLimit caps the title portion of a citation key, applied before
// slugging.
const citationTitleLimit = 60

// Slugify lowercases, drops non-word characters, collapses whitespace runs to
// single hyphens, and trims leading/trailing hyphens. Idempotent.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// CitationKey derives a stable key from the first word of the collection name
// and the (truncated) title. Collision handling is the pipeline's concern.
func CitationKey(collection, title string) string {
	head := ""
	if fields := strings.Fields(collection); len(fields) > 0 {
		head = fields[0]
	}
	r := []rune(title)
	if len(r) > citationTitleLimit {
		r = r[:citationTitleLimit]
	}
	parts := make([]string, 0, 2)
	if v := Slugify(head); v != "" {
		parts = append(parts, v)
	}
	if v := Slugify(string(r)); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, "-")
}
