package pipeline

import "testing"

func TestIsKnownStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusRunning, StatusDone, StatusFailed, StatusPartialFailed} {
		if !IsKnownStatus(s) {
			t.Fatalf("status %q not recognized", s)
		}
	}
	if IsKnownStatus("paused") {
		t.Fatal("unknown status accepted")
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[string]bool{
		StatusPending:       false,
		StatusRunning:       false,
		StatusDone:          true,
		StatusFailed:        true,
		StatusPartialFailed: true,
	}
	for s, want := range terminal {
		if got := IsTerminal(s); got != want {
			t.Fatalf("IsTerminal(%q): got %v want %v", s, got, want)
		}
	}
}

func TestNeedsAttention(t *testing.T) {
	attention := map[string]bool{
		StatusPending:       false,
		StatusRunning:       false,
		StatusDone:          false,
		StatusFailed:        true,
		StatusPartialFailed: true,
	}
	for s, want := range attention {
		if got := NeedsAttention(s); got != want {
			t.Fatalf("NeedsAttention(%q): got %v want %v", s, got, want)
		}
	}
}
