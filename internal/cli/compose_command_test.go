package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"paperdash/internal/library"
	"paperdash/internal/manifest"
)

func testComposeModel(t *testing.T, entries []manifest.Entry) composeModel {
	t.Helper()
	return newComposeModel(
		filepath.Join(t.TempDir(), "config", "library.json"),
		library.Settings{},
		entries,
		"",
	)
}

func TestComposeToggleSourceType(t *testing.T) {
	m := testComposeModel(t, []manifest.Entry{
		{Path: "ch1.pdf", Title: "Ch. 1", SourceType: manifest.SourceTypeChapter},
	})
	m.mode = composeModeEntries

	model, _ := m.updateEntries(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m2 := model.(composeModel)
	if got := m2.entries[0].SourceType; got != manifest.SourceTypePaper {
		t.Fatalf("toggle: got %q want %q", got, manifest.SourceTypePaper)
	}

	model, _ = m2.updateEntries(tea.KeyMsg{Type: tea.KeySpace})
	m3 := model.(composeModel)
	if got := m3.entries[0].SourceType; got != manifest.SourceTypeChapter {
		t.Fatalf("toggle back: got %q want %q", got, manifest.SourceTypeChapter)
	}
}

func TestComposeMetaRequiresCollectionAndYear(t *testing.T) {
	m := testComposeModel(t, []manifest.Entry{{Path: "ch1.pdf", Title: "Ch. 1"}})
	m.index = len(m.fields) - 1
	m.loadFieldIntoInput()

	model, _ := m.updateMeta(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := model.(composeModel)
	if m2.mode != composeModeMeta {
		t.Fatal("empty metadata should not advance to entries")
	}
	if m2.errText == "" {
		t.Fatal("expected validation error")
	}
}

func TestComposeMetaAdvancesWhenValid(t *testing.T) {
	m := testComposeModel(t, []manifest.Entry{{Path: "ch1.pdf", Title: "Ch. 1"}})
	m.fields[0].Value = "Gray's Anatomy"
	m.fields[1].Value = "42nd"
	m.index = len(m.fields) - 1
	m.loadFieldIntoInput()

	model, _ := m.updateMeta(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := model.(composeModel)
	if m2.mode != composeModeEntries {
		t.Fatalf("mode: got %d want entries", m2.mode)
	}
	if m2.errText != "" {
		t.Fatalf("unexpected error: %s", m2.errText)
	}
}

func TestComposeEditTitleCommitsOnEnter(t *testing.T) {
	m := testComposeModel(t, []manifest.Entry{{Path: "ch1.pdf", Title: "Ch. 1"}})
	m.mode = composeModeEntries

	model, _ := m.updateEntries(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := model.(composeModel)
	if m2.mode != composeModeEditTitle {
		t.Fatal("enter should open the title editor")
	}

	m2.input.SetValue("Chapter One: Introduction")
	model, _ = m2.updateEditTitle(tea.KeyMsg{Type: tea.KeyEnter})
	m3 := model.(composeModel)
	if m3.mode != composeModeEntries {
		t.Fatal("enter should return to entries")
	}
	if got := m3.entries[0].Title; got != "Chapter One: Introduction" {
		t.Fatalf("title: got %q", got)
	}
}

func TestComposeEditTitleEscDiscards(t *testing.T) {
	m := testComposeModel(t, []manifest.Entry{{Path: "ch1.pdf", Title: "Ch. 1"}})
	m.mode = composeModeEditTitle
	m.input.SetValue("Scrapped Title")

	model, _ := m.updateEditTitle(tea.KeyMsg{Type: tea.KeyEsc})
	m2 := model.(composeModel)
	if got := m2.entries[0].Title; got != "Ch. 1" {
		t.Fatalf("esc should keep the old title, got %q", got)
	}
}

func TestComposePrefillsFromSavedCollection(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config", "library.json")
	if _, err := library.UpsertCollection(library.UpsertCollectionOptions{
		ConfigPath: configPath,
		Name:       "Gray's Anatomy",
		Year:       "42nd",
		Authors:    "Standring",
	}); err != nil {
		t.Fatal(err)
	}

	m := newComposeModel(configPath, library.Settings{}, []manifest.Entry{{Path: "ch1.pdf", Title: "Ch. 1"}}, "Gray's Anatomy")
	if got := m.fieldValue("year"); got != "42nd" {
		t.Fatalf("prefilled year: got %q", got)
	}
	if got := m.fieldValue("authors"); got != "Standring" {
		t.Fatalf("prefilled authors: got %q", got)
	}
}

func TestComposeBuildProducesManifest(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "ch1.pdf")
	if err := os.WriteFile(src, []byte("chapter one"), 0o644); err != nil {
		t.Fatal(err)
	}
	settings := library.Settings{
		ManifestsDir: filepath.Join(tmp, "manifests"),
		SourcesDir:   filepath.Join(tmp, "sources"),
	}

	m := newComposeModel("", settings, []manifest.Entry{
		{Path: src, Title: "Ch. 1", SourceType: manifest.SourceTypeChapter},
	}, "")
	m.fields[0].Value = "Gray's Anatomy"
	m.fields[1].Value = "42nd"
	m.mode = composeModeEntries

	model, cmd := m.updateEntries(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m2 := model.(composeModel)
	if !m2.building {
		t.Fatal("expected building state after s")
	}
	if cmd == nil {
		t.Fatal("expected build command")
	}

	msg := cmd()
	built, ok := msg.(composeBuiltMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", msg)
	}
	if built.err != nil {
		t.Fatal(built.err)
	}

	model, quitCmd := m2.Update(built)
	m3 := model.(composeModel)
	if m3.result == nil {
		t.Fatal("result not recorded")
	}
	if quitCmd == nil {
		t.Fatal("expected quit after successful build")
	}
	if _, err := os.Stat(m3.result.ManifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestComposeBuildErrorReturnsToEntries(t *testing.T) {
	m := testComposeModel(t, []manifest.Entry{{Path: "ch1.pdf", Title: "Ch. 1"}})
	m.mode = composeModeEntries
	m.building = true

	model, _ := m.Update(composeBuiltMsg{err: os.ErrNotExist})
	m2 := model.(composeModel)
	if m2.building {
		t.Fatal("building flag should clear on failure")
	}
	if m2.errText == "" {
		t.Fatal("expected error text")
	}
	if m2.mode != composeModeEntries {
		t.Fatal("failure should return to the entries view")
	}
}
