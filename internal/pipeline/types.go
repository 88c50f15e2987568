package pipeline

// Run is one pipeline invocation as reported by the external executable.
// The pipeline owns run state; paperdash only reads it.
type Run struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ManifestPath string `json:"manifest_path,omitempty"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// RunSummary carries per-run aggregate counts derived by the pipeline.
type RunSummary struct {
	Sources         map[string]int `json:"sources"`
	DeadLetters     int            `json:"dead_letters"`
	UnresolvedLinks int            `json:"unresolved_links"`
}

// DeadLetter is a parked failed processing step awaiting retry.
type DeadLetter struct {
	Stage   string `json:"stage"`
	Error   string `json:"error"`
	Retries int    `json:"retries"`
}

type StatusResult struct {
	Runs []Run `json:"runs"`
}

type RunDetailResult struct {
	Run         Run          `json:"run"`
	Summary     RunSummary   `json:"summary"`
	DeadLetters []DeadLetter `json:"dead_letters"`
}

type IngestSummary struct {
	Sources map[string]int `json:"sources"`
}

type IngestResult struct {
	Summary IngestSummary `json:"summary"`
}

type ReconcileResult struct {
	Resolved int `json:"resolved"`
}
