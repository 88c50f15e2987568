package cli

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paperdash/internal/pipeline"
)

func testRuns(ids ...string) []pipeline.Run {
	out := make([]pipeline.Run, 0, len(ids))
	for _, id := range ids {
		out = append(out, pipeline.Run{ID: id, Status: pipeline.StatusRunning, CreatedAt: "2026-03-14T09:00:00Z"})
	}
	return out
}

func TestDashboardStatusMsgUpdatesRuns(t *testing.T) {
	m := dashModel{}
	model, _ := m.Update(statusMsg{runs: testRuns("r1", "r2"), at: time.Now()})
	m2 := model.(dashModel)
	if len(m2.state.Runs) != 2 {
		t.Fatalf("run count: got %d want 2", len(m2.state.Runs))
	}
	if m2.state.LastError != "" {
		t.Fatalf("unexpected error: %q", m2.state.LastError)
	}
}

func TestDashboardStatusErrorKeepsRuns(t *testing.T) {
	m := dashModel{}
	model, _ := m.Update(statusMsg{runs: testRuns("r1"), at: time.Now()})
	m2 := model.(dashModel)

	model, _ = m2.Update(statusMsg{err: errors.New("pipeline offline")})
	m3 := model.(dashModel)
	if len(m3.state.Runs) != 1 {
		t.Fatal("failed poll should keep the previous run list")
	}
	if m3.state.LastError == "" {
		t.Fatal("expected LastError after failed poll")
	}
}

func TestDashboardCursorNavigation(t *testing.T) {
	m := dashModel{}
	model, _ := m.Update(statusMsg{runs: testRuns("r1", "r2", "r3"), at: time.Now()})
	m2 := model.(dashModel)

	model, _ = m2.Update(tea.KeyMsg{Type: tea.KeyDown})
	m3 := model.(dashModel)
	if m3.state.Cursor != 1 {
		t.Fatalf("cursor after down: got %d want 1", m3.state.Cursor)
	}

	model, _ = m3.Update(tea.KeyMsg{Type: tea.KeyUp})
	m4 := model.(dashModel)
	if m4.state.Cursor != 0 {
		t.Fatalf("cursor after up: got %d want 0", m4.state.Cursor)
	}

	// Up at the top is a no-op.
	model, _ = m4.Update(tea.KeyMsg{Type: tea.KeyUp})
	m5 := model.(dashModel)
	if m5.state.Cursor != 0 {
		t.Fatalf("cursor clamp: got %d want 0", m5.state.Cursor)
	}
}

func TestDashboardMovingCursorDropsDetail(t *testing.T) {
	m := dashModel{}
	model, _ := m.Update(statusMsg{runs: testRuns("r1", "r2"), at: time.Now()})
	m2 := model.(dashModel)

	model, _ = m2.Update(detailMsg{detail: pipeline.RunDetailResult{Run: pipeline.Run{ID: "r1"}}})
	m3 := model.(dashModel)
	if m3.state.Detail == nil {
		t.Fatal("detail not recorded")
	}

	model, _ = m3.Update(tea.KeyMsg{Type: tea.KeyDown})
	m4 := model.(dashModel)
	if m4.state.Detail != nil {
		t.Fatal("moving the cursor should close the detail pane")
	}
}

func TestDashboardEscClosesDetail(t *testing.T) {
	m := dashModel{}
	model, _ := m.Update(detailMsg{detail: pipeline.RunDetailResult{Run: pipeline.Run{ID: "r1"}}})
	m2 := model.(dashModel)

	model, _ = m2.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m3 := model.(dashModel)
	if m3.state.Detail != nil {
		t.Fatal("esc should close the detail pane")
	}
}

func TestDashboardActionMsg(t *testing.T) {
	m := dashModel{}
	model, cmd := m.Update(actionMsg{notice: "retry requested for run r1"})
	m2 := model.(dashModel)
	if m2.state.Notice != "retry requested for run r1" {
		t.Fatalf("notice: got %q", m2.state.Notice)
	}
	if cmd == nil {
		t.Fatal("successful action should trigger a refresh")
	}

	model, _ = m2.Update(actionMsg{err: errors.New("no dead letters")})
	m3 := model.(dashModel)
	if m3.state.LastError == "" {
		t.Fatal("failed action should record an error")
	}
}

func TestDashboardQuitKey(t *testing.T) {
	m := dashModel{}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestDashboardWindowSize(t *testing.T) {
	m := dashModel{}
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m2 := model.(dashModel)
	if m2.state.Width != 120 || m2.state.Height != 40 {
		t.Fatalf("size: got %dx%d", m2.state.Width, m2.state.Height)
	}
}
