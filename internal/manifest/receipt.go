package manifest

import (
	"path/filepath"

	"paperdash/internal/store"
)

const receiptFileName = "latest.json"

// Receipt records the most recent successful build so ingest/dry-run can be
// pointed at it without retyping the manifest path.
type Receipt struct {
	SubmissionID string `json:"submission_id"`
	ManifestPath string `json:"manifest_path"`
	Collection   string `json:"collection"`
	Entries      int    `json:"entries"`
	CreatedAt    string `json:"created_at"`
}

func writeReceipt(manifestsDir string, r Receipt) error {
	return store.WriteJSON(filepath.Join(manifestsDir, receiptFileName), r)
}

// LatestReceipt loads the receipt of the last build under manifestsDir.
func LatestReceipt(manifestsDir string) (Receipt, error) {
	var r Receipt
	if err := store.ReadJSON(filepath.Join(manifestsDir, receiptFileName), &r); err != nil {
		return Receipt{}, err
	}
	return r, nil
}
