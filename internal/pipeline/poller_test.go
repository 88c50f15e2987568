package pipeline

import (
	"testing"
	"time"
)

func TestPollerDeliversSnapshots(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
echo '{"runs":[{"id":"r1","status":"done","created_at":"2026-03-14T09:00:00Z"}]}'
`)
	p := NewPoller(client, 10*time.Millisecond)
	p.Start()
	defer p.Stop()

	select {
	case snap := <-p.Snapshots():
		if snap.Err != nil {
			t.Fatal(snap.Err)
		}
		if len(snap.Runs) != 1 || snap.Runs[0].ID != "r1" {
			t.Fatalf("unexpected snapshot: %+v", snap.Runs)
		}
		if snap.At.IsZero() {
			t.Fatal("snapshot missing timestamp")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestPollerSurfacesErrors(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
echo "pipeline offline" >&2
exit 1
`)
	p := NewPoller(client, 10*time.Millisecond)
	p.Start()
	defer p.Stop()

	select {
	case snap := <-p.Snapshots():
		if snap.Err == nil {
			t.Fatal("expected poll error in snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestPollerZeroIntervalDisabled(t *testing.T) {
	p := NewPoller(NewClient("paperpipe"), 0)
	p.Start()

	select {
	case snap := <-p.Snapshots():
		t.Fatalf("disabled poller published %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
	p.Stop()
}

func TestPollerStopTerminatesLoop(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
echo '{"runs":[]}'
`)
	p := NewPoller(client, 5*time.Millisecond)
	p.Start()

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
