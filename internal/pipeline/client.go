package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

const DefaultBinary = "paperpipe"

// Client invokes the external ingestion pipeline executable. Each call is one
// subprocess: stdout is the JSON response, stderr is the failure text.
type Client struct {
	Binary string
}

func NewClient(binary string) Client {
	b := strings.TrimSpace(binary)
	if b == "" {
		b = DefaultBinary
	}
	return Client{Binary: b}
}

func (c Client) Status() (StatusResult, error) {
	var res StatusResult
	if err := c.call(&res, "status"); err != nil {
		return StatusResult{}, err
	}
	return res, nil
}

func (c Client) RunDetail(runID string) (RunDetailResult, error) {
	id := strings.TrimSpace(runID)
	if id == "" {
		return RunDetailResult{}, fmt.Errorf("run id is required")
	}
	var res RunDetailResult
	if err := c.call(&res, "status", "--run-id", id); err != nil {
		return RunDetailResult{}, err
	}
	return res, nil
}

func (c Client) Ingest(manifestPath string) (IngestResult, error) {
	return c.submit("ingest", manifestPath)
}

func (c Client) DryRun(manifestPath string) (IngestResult, error) {
	return c.submit("dry-run", manifestPath)
}

func (c Client) submit(subcommand, manifestPath string) (IngestResult, error) {
	path := strings.TrimSpace(manifestPath)
	if path == "" {
		return IngestResult{}, fmt.Errorf("manifest path is required")
	}
	var res IngestResult
	if err := c.call(&res, subcommand, "--manifest", path); err != nil {
		return IngestResult{}, err
	}
	return res, nil
}

// Retry forwards a retry request for the run's dead letters. The pipeline owns
// the recovery semantics; the acknowledgement payload is ignored.
func (c Client) Retry(runID string) error {
	id := strings.TrimSpace(runID)
	if id == "" {
		return fmt.Errorf("run id is required")
	}
	_, err := c.run("retry", "--run-id", id)
	return err
}

func (c Client) ReconcileLinks(scope string) (ReconcileResult, error) {
	s := strings.TrimSpace(scope)
	if s == "" {
		s = "all"
	}
	var res ReconcileResult
	if err := c.call(&res, "reconcile-links", "--scope", s); err != nil {
		return ReconcileResult{}, err
	}
	return res, nil
}

func (c Client) call(v any, args ...string) error {
	out, err := c.run(args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("parse %s %s response: %w", c.binary(), args[0], err)
	}
	return nil
}

func (c Client) run(args ...string) ([]byte, error) {
	cmd := exec.Command(c.binary(), args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s %s failed: %w", c.binary(), args[0], err)
		}
		return nil, fmt.Errorf("%s %s failed: %s", c.binary(), args[0], msg)
	}
	return stdout.Bytes(), nil
}

func (c Client) binary() string {
	if strings.TrimSpace(c.Binary) == "" {
		return DefaultBinary
	}
	return c.Binary
}
