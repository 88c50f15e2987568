package manifest

import (
	"regexp"
	"strings"
)

const (
	SourceTypeChapter = "textbook_chapter"
	SourceTypePaper   = "research_article"
)

var (
	chapterPrefixRe = regexp.MustCompile(`(?i)^ch(apter)?[\s._-]*\d`)
	chapterWordRe   = regexp.MustCompile(`(?i)\b(chapter|section)\b`)
)

// Classify guesses a source type from a file name. Advisory only: callers may
// override per entry. Identical names always classify identically.
func Classify(fileName string) string {
	name := strings.TrimSpace(fileName)
	if chapterPrefixRe.MatchString(name) || chapterWordRe.MatchString(name) {
		return SourceTypeChapter
	}
	return SourceTypePaper
}

func IsKnownSourceType(v string) bool {
	return v == SourceTypeChapter || v == SourceTypePaper
}
