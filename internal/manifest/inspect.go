package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Inspection is an advisory preflight result for one source file. A failed
// inspection does not block the build.
type Inspection struct {
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Error   string `json:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// InspectSource reads the page count of a PDF entry. Non-PDF files are skipped.
func InspectSource(path string) Inspection {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return Inspection{Path: path, Skipped: true}
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return Inspection{Path: path, Error: fmt.Sprintf("unreadable pdf: %v", err)}
	}
	return Inspection{Path: path, Pages: pages}
}
