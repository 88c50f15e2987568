package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// installFakePipeline puts a shell script named paperpipe on PATH and returns
// a client bound to it.
func installFakePipeline(t *testing.T, script string) Client {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, "paperpipe"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin+":"+os.Getenv("PATH"))
	return NewClient("paperpipe")
}

func TestClientStatus(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
set -euo pipefail
echo '{"runs":[{"id":"r1","status":"running","created_at":"2026-03-14T09:00:00Z"},{"id":"r2","status":"partial_failed","error":"3 dead letters","created_at":"2026-03-14T08:00:00Z"}]}'
`)
	res, err := client.Status()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Runs) != 2 {
		t.Fatalf("run count: got %d want 2", len(res.Runs))
	}
	if res.Runs[0].ID != "r1" || res.Runs[0].Status != StatusRunning {
		t.Fatalf("first run: %+v", res.Runs[0])
	}
	if res.Runs[1].Status != StatusPartialFailed || res.Runs[1].Error != "3 dead letters" {
		t.Fatalf("second run: %+v", res.Runs[1])
	}
}

func TestClientRunDetail(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
set -euo pipefail
if [ "$1 $2 $3" != "status --run-id r1" ]; then
  echo "unexpected args: $*" >&2
  exit 1
fi
echo '{"run":{"id":"r1","status":"partial_failed","created_at":"2026-03-14T09:00:00Z"},"summary":{"sources":{"textbook_chapter":2},"dead_letters":1,"unresolved_links":4},"dead_letters":[{"stage":"embed","error":"timeout","retries":2}]}'
`)
	res, err := client.RunDetail("r1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Run.ID != "r1" {
		t.Fatalf("run id: got %q", res.Run.ID)
	}
	if res.Summary.Sources["textbook_chapter"] != 2 || res.Summary.UnresolvedLinks != 4 {
		t.Fatalf("summary: %+v", res.Summary)
	}
	if len(res.DeadLetters) != 1 || res.DeadLetters[0].Stage != "embed" {
		t.Fatalf("dead letters: %+v", res.DeadLetters)
	}
}

func TestClientRunDetailRequiresID(t *testing.T) {
	client := NewClient("paperpipe")
	if _, err := client.RunDetail("  "); err == nil {
		t.Fatal("expected error for blank run id")
	}
}

func TestClientStderrBecomesError(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
echo "manifest not found: missing.csv" >&2
exit 1
`)
	_, err := client.Ingest("missing.csv")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "manifest not found: missing.csv") {
		t.Fatalf("stderr text not surfaced: %v", err)
	}
}

func TestClientEmptyStderrFallsBackToExitError(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
exit 3
`)
	_, err := client.Status()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "paperpipe status failed") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestClientMalformedJSON(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
echo 'not json'
`)
	_, err := client.Status()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse paperpipe status response") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestClientRetry(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
set -euo pipefail
if [ "$1 $2 $3" != "retry --run-id r9" ]; then
  echo "unexpected args: $*" >&2
  exit 1
fi
echo '{"ok":true}'
`)
	if err := client.Retry("r9"); err != nil {
		t.Fatal(err)
	}
}

func TestClientReconcileDefaultsScope(t *testing.T) {
	client := installFakePipeline(t, `#!/usr/bin/env bash
set -euo pipefail
if [ "$1 $2 $3" != "reconcile-links --scope all" ]; then
  echo "unexpected args: $*" >&2
  exit 1
fi
echo '{"resolved":7}'
`)
	res, err := client.ReconcileLinks("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Resolved != 7 {
		t.Fatalf("resolved: got %d want 7", res.Resolved)
	}
}

func TestNewClientDefaultsBinary(t *testing.T) {
	if c := NewClient("  "); c.Binary != DefaultBinary {
		t.Fatalf("default binary: got %q want %q", c.Binary, DefaultBinary)
	}
}
