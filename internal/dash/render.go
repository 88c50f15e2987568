package dash

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"paperdash/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

// Render maps dashboard state to its full-screen string.
func Render(s State) string {
	width := s.Width
	if width <= 0 {
		width = 100
	}
	height := s.Height
	if height <= 0 {
		height = 30
	}

	header := titleStyle.Render("paperdash runs") + "\n" +
		mutedStyle.Render("up/down: move | enter: detail | t: retry | L: reconcile links | r: refresh | q: quit")

	if width < 90 {
		body := lipgloss.JoinVertical(lipgloss.Left,
			renderRunsPanel(s, width),
			renderDetailPanel(s, width, height),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header, body, renderStatusLine(s, width))
	}

	leftW := clampInt(width/2, 40, 62)
	rightW := width - leftW - 1
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		renderRunsPanel(s, leftW),
		renderDetailPanel(s, rightW, height),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, renderStatusLine(s, width))
}

func renderRunsPanel(s State, width int) string {
	maxRows := clampInt(s.Height-10, 4, 20)
	lines := make([]string, 0, maxRows+2)
	if len(s.Runs) == 0 {
		lines = append(lines, mutedStyle.Render("No runs reported yet."))
		lines = append(lines, mutedStyle.Render("Build a manifest and run ingest."))
	}
	start, end := listWindow(len(s.Runs), s.Cursor, maxRows)
	if start > 0 {
		lines = append(lines, mutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		r := s.Runs[i]
		line := fmt.Sprintf("%s %s  %s  %s", statusMark(r.Status), r.ID, r.Status, r.CreatedAt)
		line = truncateRunes(line, maxInt(width-6, 10))
		if i == s.Cursor {
			line = selStyle.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if end < len(s.Runs) {
		lines = append(lines, mutedStyle.Render("..."))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderDetailPanel(s State, width, height int) string {
	lines := []string{}
	switch {
	case s.Detail != nil:
		lines = append(lines, renderDetailLines(*s.Detail, width)...)
	default:
		r, ok := s.SelectedRun()
		if !ok {
			lines = append(lines, "Run Detail")
			lines = append(lines, "")
			lines = append(lines, mutedStyle.Render("Select a run and press Enter."))
			break
		}
		lines = append(lines, "Run "+r.ID)
		lines = append(lines, "")
		lines = append(lines, kv("status", r.Status))
		lines = append(lines, kv("created_at", r.CreatedAt))
		if r.ManifestPath != "" {
			lines = append(lines, kv("manifest", r.ManifestPath))
		}
		if r.Error != "" {
			lines = append(lines, errorStyle.Render(kv("error", r.Error)))
		}
		lines = append(lines, "")
		lines = append(lines, mutedStyle.Render("Press Enter for summary and dead letters."))
	}

	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderDetailLines(d pipeline.RunDetailResult, width int) []string {
	lines := []string{"Run " + d.Run.ID, ""}
	lines = append(lines, kv("status", d.Run.Status))
	lines = append(lines, kv("created_at", d.Run.CreatedAt))
	if d.Run.ManifestPath != "" {
		lines = append(lines, kv("manifest", d.Run.ManifestPath))
	}
	if d.Run.Error != "" {
		lines = append(lines, errorStyle.Render(kv("error", d.Run.Error)))
	}
	lines = append(lines, "")
	lines = append(lines, "Sources")
	for _, st := range sortedStatuses(d.Summary.Sources) {
		lines = append(lines, kv("  "+st, fmt.Sprintf("%d", d.Summary.Sources[st])))
	}
	lines = append(lines, kv("dead_letters", fmt.Sprintf("%d", d.Summary.DeadLetters)))
	lines = append(lines, kv("unresolved_links", fmt.Sprintf("%d", d.Summary.UnresolvedLinks)))
	if len(d.DeadLetters) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Dead Letters")
		for _, dl := range d.DeadLetters {
			lines = append(lines, fmt.Sprintf("  %s (retries %d): %s", dl.Stage, dl.Retries, dl.Error))
		}
	}
	return lines
}

func renderStatusLine(s State, width int) string {
	msg := strings.TrimSpace(s.Notice)
	style := okStyle
	if strings.TrimSpace(s.LastError) != "" {
		msg = "error: " + strings.TrimSpace(s.LastError)
		style = errorStyle
	}
	if msg == "" {
		if s.Polling && !s.PolledAt.IsZero() {
			msg = "last refresh " + s.PolledAt.Format("15:04:05")
		} else if !s.Polling {
			msg = "polling disabled; press r to refresh"
		} else {
			msg = "waiting for first status poll..."
		}
		style = mutedStyle
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}

func statusMark(status string) string {
	switch {
	case status == pipeline.StatusDone:
		return okStyle.Render("+")
	case pipeline.NeedsAttention(status):
		return warnStyle.Render("!")
	case status == pipeline.StatusRunning:
		return mutedStyle.Render("~")
	default:
		return " "
	}
}

func sortedStatuses(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func kv(k, v string) string {
	return fmt.Sprintf("%s: %s", k, v)
}

func listWindow(total, cursor, maxRows int) (int, int) {
	if total <= maxRows {
		return 0, total
	}
	half := maxRows / 2
	start := cursor - half
	if start < 0 {
		start = 0
	}
	end := start + maxRows
	if end > total {
		end = total
		start = end - maxRows
	}
	return start, end
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func wrapOrTrim(s string, width int) string {
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncateRunes(s, width)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
