package cli

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperdash/internal/library"
	"paperdash/internal/manifest"
)

type composeMode int

const (
	composeModeMeta composeMode = iota
	composeModeEntries
	composeModeEditTitle
)

type composeFieldKind int

const (
	composeFieldString composeFieldKind = iota
	composeFieldBool
)

type composeField struct {
	Key      string
	Label    string
	Help     string
	Kind     composeFieldKind
	Value    string
	Required bool
}

type composeModel struct {
	configPath string
	settings   library.Settings

	mode   composeMode
	fields []composeField
	index  int
	input  textinput.Model

	entries []manifest.Entry
	cursor  int

	errText  string
	building bool
	result   *manifest.BuildResult
	fatalErr error

	width  int
	height int
}

type composeBuiltMsg struct {
	result manifest.BuildResult
	err    error
}

var (
	composeTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	composeMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	composeErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	composePanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	composeSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runCompose(args []string) error {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	var files stringListFlag
	fs.Var(&files, "file", "source file (repeatable)")
	collection := fs.String("collection", "", "collection or book name to pre-fill")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("at least one --file is required")
	}
	if !stdinIsTTY() {
		return errors.New("compose requires an interactive terminal (TTY); use build instead")
	}

	settings, err := library.ReadSettings(*config)
	if err != nil {
		return err
	}

	entries := make([]manifest.Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, manifest.Entry{
			Path:       strings.TrimSpace(f),
			Title:      titleFromFile(f),
			SourceType: manifest.Classify(filepath.Base(f)),
		})
	}
	deduped, dropped, err := manifest.DedupeEntries(entries)
	if err != nil {
		return err
	}

	m := newComposeModel(*config, settings, deduped, strings.TrimSpace(*collection))
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("compose requires an interactive terminal (TTY); use build instead")
		}
		return err
	}
	fm, ok := finalModel.(composeModel)
	if !ok {
		return nil
	}
	if fm.fatalErr != nil {
		return fm.fatalErr
	}
	if fm.result == nil {
		fmt.Println("compose cancelled; nothing written")
		return nil
	}
	fmt.Printf("manifest built: %s\n", fm.result.ManifestPath)
	fmt.Printf("entries: %d", fm.result.Entries)
	if dropped > 0 {
		fmt.Printf(" (%d duplicate file(s) skipped)", dropped)
	}
	fmt.Println()
	fmt.Println("next: paperdash dry-run --latest")
	return nil
}

func newComposeModel(configPath string, settings library.Settings, entries []manifest.Entry, collection string) composeModel {
	m := composeModel{
		configPath: configPath,
		settings:   settings,
		mode:       composeModeMeta,
		entries:    entries,
		fields: []composeField{
			{Key: "collection", Label: "Collection / Book", Help: "Matched against saved collections for pre-fill", Kind: composeFieldString, Required: true, Value: collection},
			{Key: "year", Label: "Year / Edition", Help: "Required by the pipeline", Kind: composeFieldString, Required: true},
			{Key: "authors", Label: "Authors", Help: "Free-form authors string", Kind: composeFieldString},
			{Key: "inspect", Label: "Inspect PDFs", Help: "Read page counts before building", Kind: composeFieldBool, Value: "n"},
		},
	}
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 512
	input.Width = 60
	m.input = input
	if collection != "" {
		m.prefillFromSaved(collection)
	}
	m.loadFieldIntoInput()
	m.input.Focus()
	return m
}

func (m composeModel) Init() tea.Cmd {
	return nil
}

func (m composeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = clampInt(m.width-8, 20, 120)
		return m, nil
	case composeBuiltMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.building = false
			m.mode = composeModeEntries
			return m, nil
		}
		res := msg.result
		m.result = &res
		return m, tea.Quit
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.building {
		return m, nil
	}

	switch m.mode {
	case composeModeMeta:
		return m.updateMeta(keyMsg)
	case composeModeEntries:
		return m.updateEntries(keyMsg)
	case composeModeEditTitle:
		return m.updateEditTitle(keyMsg)
	default:
		return m, nil
	}
}

func (m composeModel) updateMeta(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := strings.ToLower(msg.String())
	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "shift+tab":
		m.commitInput()
		if m.index > 0 {
			m.index--
		}
		m.loadFieldIntoInput()
		return m, nil
	case "down", "tab":
		m.commitInput()
		if m.index < len(m.fields)-1 {
			m.index++
		}
		m.loadFieldIntoInput()
		return m, nil
	case " ", "space", "left", "right":
		if m.fields[m.index].Kind == composeFieldBool {
			m.toggleBoolField()
			return m, nil
		}
	case "enter":
		m.commitInput()
		if m.index < len(m.fields)-1 {
			m.index++
			m.loadFieldIntoInput()
			return m, nil
		}
		if err := m.validateMeta(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.errText = ""
		m.mode = composeModeEntries
		return m, nil
	}

	if m.fields[m.index].Kind == composeFieldBool {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.fields[m.index].Value = m.input.Value()
	return m, cmd
}

func (m composeModel) updateEntries(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil
	case " ", "space", "left", "right", "t":
		if m.cursor < len(m.entries) {
			m.entries[m.cursor].SourceType = toggleSourceType(m.entries[m.cursor].SourceType)
		}
		return m, nil
	case "enter", "e":
		if m.cursor < len(m.entries) {
			m.mode = composeModeEditTitle
			m.input.SetValue(m.entries[m.cursor].Title)
			m.input.CursorEnd()
		}
		return m, nil
	case "b":
		m.mode = composeModeMeta
		m.loadFieldIntoInput()
		return m, nil
	case "s", "ctrl+s":
		if err := m.validateEntries(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.errText = ""
		m.building = true
		return m, m.buildCmd()
	}
	return m, nil
}

func (m composeModel) updateEditTitle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = composeModeEntries
		return m, nil
	case "enter":
		if m.cursor < len(m.entries) {
			m.entries[m.cursor].Title = strings.TrimSpace(m.input.Value())
		}
		m.mode = composeModeEntries
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *composeModel) commitInput() {
	if m.fields[m.index].Kind == composeFieldBool {
		return
	}
	m.fields[m.index].Value = strings.TrimSpace(m.input.Value())
	if m.fields[m.index].Key == "collection" {
		m.prefillFromSaved(m.fields[m.index].Value)
	}
}

func (m *composeModel) loadFieldIntoInput() {
	m.input.SetValue(m.fields[m.index].Value)
	m.input.CursorEnd()
}

func (m *composeModel) toggleBoolField() {
	f := &m.fields[m.index]
	v, _ := parseBool(f.Value)
	f.Value = boolToYN(!v)
}

// prefillFromSaved fills empty year/authors from the saved collection template.
func (m *composeModel) prefillFromSaved(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	saved, err := library.FindCollection(m.configPath, name)
	if err != nil {
		return
	}
	for i := range m.fields {
		switch m.fields[i].Key {
		case "year":
			if strings.TrimSpace(m.fields[i].Value) == "" {
				m.fields[i].Value = saved.Year
			}
		case "authors":
			if strings.TrimSpace(m.fields[i].Value) == "" {
				m.fields[i].Value = saved.Authors
			}
		}
	}
}

func (m composeModel) fieldValue(key string) string {
	for _, f := range m.fields {
		if f.Key == key {
			return strings.TrimSpace(f.Value)
		}
	}
	return ""
}

func (m composeModel) validateMeta() error {
	for _, f := range m.fields {
		if f.Required && strings.TrimSpace(f.Value) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(f.Label))
		}
	}
	return nil
}

func (m composeModel) validateEntries() error {
	if err := m.validateMeta(); err != nil {
		return err
	}
	for _, e := range m.entries {
		if strings.TrimSpace(e.Title) == "" {
			return fmt.Errorf("%s is missing a title", filepath.Base(e.Path))
		}
	}
	return nil
}

func (m composeModel) buildCmd() tea.Cmd {
	inspect, _ := parseBool(m.fieldValue("inspect"))
	opts := manifest.BuildOptions{
		ConfigPath:   m.configPath,
		ManifestsDir: m.settings.ManifestsDir,
		SourcesDir:   m.settings.SourcesDir,
		Collection:   m.fieldValue("collection"),
		Year:         m.fieldValue("year"),
		Authors:      m.fieldValue("authors"),
		Region:       m.settings.Region,
		Priority:     m.settings.Priority,
		Entries:      append([]manifest.Entry(nil), m.entries...),
		InspectPDFs:  inspect,
	}
	return func() tea.Msg {
		res, err := manifest.Build(opts)
		return composeBuiltMsg{result: res, err: err}
	}
}

func (m composeModel) View() string {
	if m.fatalErr != nil {
		return composeErrorStyle.Render("fatal: " + m.fatalErr.Error())
	}
	width := m.width
	if width <= 0 {
		width = 100
	}

	switch m.mode {
	case composeModeMeta:
		return m.viewMeta(width)
	case composeModeEditTitle:
		return m.viewEditTitle(width)
	default:
		return m.viewEntries(width)
	}
}

func (m composeModel) viewMeta(width int) string {
	header := composeTitleStyle.Render("paperdash compose: collection metadata")
	hints := composeMutedStyle.Render("tab/up/down: move | space: toggle | enter: next/continue | esc: cancel")

	lines := make([]string, 0, len(m.fields)+4)
	for i, f := range m.fields {
		prefix := "  "
		if i == m.index {
			prefix = "> "
		}
		display := strings.TrimSpace(f.Value)
		if f.Kind == composeFieldBool {
			v, _ := parseBool(display)
			display = yesNo(v)
		}
		if display == "" {
			display = composeMutedStyle.Render("(empty)")
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, f.Label, display))
	}

	curr := m.fields[m.index]
	inputBlock := "\n" + curr.Label + "\n"
	if strings.TrimSpace(curr.Help) != "" {
		inputBlock += composeMutedStyle.Render(curr.Help) + "\n"
	}
	if curr.Kind != composeFieldBool {
		inputBlock += m.input.View()
	}
	status := ""
	if strings.TrimSpace(m.errText) != "" {
		status = "\n" + composeErrorStyle.Render(m.errText)
	}

	panel := composePanelStyle.Width(maxInt(width-2, 40)).Render(strings.Join(lines, "\n") + inputBlock + status)
	return lipgloss.JoinVertical(lipgloss.Left, header, hints, panel)
}

func (m composeModel) viewEntries(width int) string {
	header := composeTitleStyle.Render("paperdash compose: entries")
	hints := composeMutedStyle.Render("up/down: move | enter/e: edit title | space/t: toggle type | b: metadata | s: build | esc: cancel")

	lines := make([]string, 0, len(m.entries)+2)
	for i, e := range m.entries {
		line := fmt.Sprintf("%s  [%s]  %s", e.Title, shortSourceType(e.SourceType), filepath.Base(e.Path))
		line = truncateRunes(line, maxInt(width-8, 20))
		if i == m.cursor {
			line = composeSelStyle.Width(maxInt(width-6, 10)).Render(line)
		}
		lines = append(lines, line)
	}
	summary := composeMutedStyle.Render(fmt.Sprintf(
		"collection %q, year %q, %d file(s)",
		m.fieldValue("collection"), m.fieldValue("year"), len(m.entries),
	))
	status := ""
	if m.building {
		status = "\n" + composeMutedStyle.Render("Building...")
	}
	if strings.TrimSpace(m.errText) != "" {
		status = "\n" + composeErrorStyle.Render(m.errText)
	}

	panel := composePanelStyle.Width(maxInt(width-2, 40)).Render(strings.Join(lines, "\n") + "\n\n" + summary + status)
	return lipgloss.JoinVertical(lipgloss.Left, header, hints, panel)
}

func (m composeModel) viewEditTitle(width int) string {
	header := composeTitleStyle.Render("edit title")
	name := ""
	if m.cursor < len(m.entries) {
		name = filepath.Base(m.entries[m.cursor].Path)
	}
	panel := composePanelStyle.Width(maxInt(width-2, 40)).Render(
		composeMutedStyle.Render(name) + "\n" + m.input.View() + "\n" + composeMutedStyle.Render("enter: save | esc: cancel"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, panel)
}

func toggleSourceType(v string) string {
	if v == manifest.SourceTypeChapter {
		return manifest.SourceTypePaper
	}
	return manifest.SourceTypeChapter
}

func shortSourceType(v string) string {
	if v == manifest.SourceTypeChapter {
		return "chapter"
	}
	return "paper"
}
