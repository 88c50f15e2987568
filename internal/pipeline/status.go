package pipeline

const (
	StatusPending       = "pending"
	StatusRunning       = "running"
	StatusDone          = "done"
	StatusFailed        = "failed"
	StatusPartialFailed = "partial_failed"
)

var knownStatuses = map[string]bool{
	StatusPending:       true,
	StatusRunning:       true,
	StatusDone:          true,
	StatusFailed:        true,
	StatusPartialFailed: true,
}

func IsKnownStatus(status string) bool {
	return knownStatuses[status]
}

// IsTerminal reports whether the pipeline has stopped working on the run.
func IsTerminal(status string) bool {
	switch status {
	case StatusDone, StatusFailed, StatusPartialFailed:
		return true
	default:
		return false
	}
}

// NeedsAttention reports whether the run should be flagged for retry.
func NeedsAttention(status string) bool {
	switch status {
	case StatusFailed, StatusPartialFailed:
		return true
	default:
		return false
	}
}
