package dash

import (
	"testing"
	"time"

	"paperdash/internal/pipeline"
)

func runs(ids ...string) []pipeline.Run {
	out := make([]pipeline.Run, 0, len(ids))
	for _, id := range ids {
		out = append(out, pipeline.Run{ID: id, Status: pipeline.StatusRunning, CreatedAt: "2026-03-14T09:00:00Z"})
	}
	return out
}

func TestSelectedRun(t *testing.T) {
	s := State{Runs: runs("r1", "r2"), Cursor: 1}
	r, ok := s.SelectedRun()
	if !ok || r.ID != "r2" {
		t.Fatalf("selected run: got %+v ok=%v", r, ok)
	}

	s.Cursor = 5
	if _, ok := s.SelectedRun(); ok {
		t.Fatal("out-of-range cursor should select nothing")
	}
}

func TestWithRunsClampsCursor(t *testing.T) {
	s := State{Runs: runs("r1", "r2", "r3"), Cursor: 2}
	s = s.WithRuns(runs("r1"), time.Now())
	if s.Cursor != 0 {
		t.Fatalf("cursor: got %d want 0", s.Cursor)
	}

	s = s.WithRuns(nil, time.Now())
	if s.Cursor != 0 {
		t.Fatalf("cursor on empty list: got %d want 0", s.Cursor)
	}
	if _, ok := s.SelectedRun(); ok {
		t.Fatal("empty list should select nothing")
	}
}

func TestWithRunsDropsStaleDetail(t *testing.T) {
	detail := &pipeline.RunDetailResult{Run: pipeline.Run{ID: "r2"}}
	s := State{Runs: runs("r1", "r2"), Detail: detail}

	s = s.WithRuns(runs("r1", "r2"), time.Now())
	if s.Detail == nil {
		t.Fatal("detail for a surviving run was dropped")
	}

	s = s.WithRuns(runs("r1"), time.Now())
	if s.Detail != nil {
		t.Fatal("detail for a vanished run was kept")
	}
}

func TestWithRunsRecordsPollTime(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := State{}.WithRuns(runs("r1"), at)
	if !s.PolledAt.Equal(at) {
		t.Fatalf("polled at: got %v want %v", s.PolledAt, at)
	}
}
