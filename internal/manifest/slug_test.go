package manifest

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gray's Anatomy", "grays-anatomy"},
		{"Ch. 1", "ch-1"},
		{"  Molecular   Biology of THE Cell  ", "molecular-biology-of-the-cell"},
		{"already-a-slug", "already-a-slug"},
		{"under_score kept", "under_score-kept"},
		{"--edge--case--", "edge-case"},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Gray's Anatomy", "Ch. 1", "Smith et al. (2023)"}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Fatalf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCitationKey(t *testing.T) {
	if got := CitationKey("Gray's Anatomy", "Ch. 1"); got != "grays-ch-1" {
		t.Fatalf("citation key: got %q want %q", got, "grays-ch-1")
	}
	if got := CitationKey("Gray's Anatomy", "Ch. 2"); got != "grays-ch-2" {
		t.Fatalf("citation key: got %q want %q", got, "grays-ch-2")
	}
}

func TestCitationKeyDeterministic(t *testing.T) {
	a := CitationKey("Molecular Biology", "Chapter 12 The Cell Cycle")
	b := CitationKey("Molecular Biology", "Chapter 12 The Cell Cycle")
	if a != b {
		t.Fatalf("same inputs produced different keys: %q vs %q", a, b)
	}
}

func TestCitationKeyTruncatesTitle(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := CitationKey("Collection", long)
	want := "collection-" + strings.Repeat("a", citationTitleLimit)
	if got != want {
		t.Fatalf("long title key: got %q want %q", got, want)
	}
}

func TestCitationKeyEmptyParts(t *testing.T) {
	if got := CitationKey("", "Ch. 1"); got != "ch-1" {
		t.Fatalf("empty collection: got %q want %q", got, "ch-1")
	}
	if got := CitationKey("Gray's Anatomy", ""); got != "grays" {
		t.Fatalf("empty title: got %q want %q", got, "grays")
	}
}
