package dash

import (
	"time"

	"paperdash/internal/pipeline"
)

// State is everything the dashboard shows. It is plain data: the render
// functions in this package map it to a display string and nothing here
// touches a terminal or a subprocess.
type State struct {
	Runs     []pipeline.Run
	Cursor   int
	Detail   *pipeline.RunDetailResult
	PolledAt time.Time

	// Notice is a transient message from the last user action; LastError is
	// the last failed operation. Neither is fatal to the view.
	Notice    string
	LastError string

	Polling bool
	Width   int
	Height  int
}

// SelectedRun returns the run under the cursor.
func (s State) SelectedRun() (pipeline.Run, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Runs) {
		return pipeline.Run{}, false
	}
	return s.Runs[s.Cursor], true
}

// WithRuns replaces the run list, clamping the cursor and dropping a stale
// detail pane when its run disappeared.
func (s State) WithRuns(runs []pipeline.Run, at time.Time) State {
	s.Runs = runs
	s.PolledAt = at
	if s.Cursor >= len(runs) {
		s.Cursor = len(runs) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Detail != nil {
		found := false
		for _, r := range runs {
			if r.ID == s.Detail.Run.ID {
				found = true
				break
			}
		}
		if !found {
			s.Detail = nil
		}
	}
	return s
}
