package manifest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"paperdash/internal/library"
	"paperdash/internal/store"
)

const copyConcurrency = 4

var csvHeader = []string{
	"source_path", "source_type", "book_or_collection", "chapter_or_title",
	"edition_or_year", "authors", "citation_key", "region", "priority", "notes",
}

// Entry is one user-selected source file with its per-file metadata.
type Entry struct {
	Path       string
	Title      string
	SourceType string
}

type BuildOptions struct {
	// ConfigPath enables the saved-collection upsert; empty skips it.
	ConfigPath   string
	ManifestsDir string
	SourcesDir   string
	Collection   string
	Year         string
	Authors      string
	Region       string
	Priority     string
	Entries      []Entry
	InspectPDFs  bool
	// Now overrides the manifest timestamp, for tests.
	Now time.Time
}

type BuildResult struct {
	SubmissionID    string       `json:"submission_id"`
	Slug            string       `json:"slug"`
	ManifestPath    string       `json:"manifest_path"`
	DestDir         string       `json:"dest_dir"`
	Entries         int          `json:"entries"`
	Deduped         int          `json:"deduped"`
	Inspections     []Inspection `json:"inspections,omitempty"`
	CollectionSaved bool         `json:"collection_saved"`
}

// Build validates, copies sources into the collection directory, and writes
// the manifest CSV. Validation failures happen before any filesystem write.
// A copy failure partway through is surfaced as-is; already copied files are
// not rolled back.
func Build(opts BuildOptions) (BuildResult, error) {
	collection := strings.TrimSpace(opts.Collection)
	year := strings.TrimSpace(opts.Year)
	if len(opts.Entries) == 0 {
		return BuildResult{}, fmt.Errorf("at least one source file is required")
	}
	if collection == "" {
		return BuildResult{}, fmt.Errorf("collection name is required")
	}
	if year == "" {
		return BuildResult{}, fmt.Errorf("year/edition is required")
	}
	slug := Slugify(collection)
	if slug == "" {
		return BuildResult{}, fmt.Errorf("collection name %q has no usable characters", collection)
	}

	entries, deduped, err := DedupeEntries(opts.Entries)
	if err != nil {
		return BuildResult{}, err
	}
	for i := range entries {
		if strings.TrimSpace(entries[i].Title) == "" {
			return BuildResult{}, fmt.Errorf("source %s is missing a title", filepath.Base(entries[i].Path))
		}
		if strings.TrimSpace(entries[i].SourceType) == "" {
			entries[i].SourceType = Classify(filepath.Base(entries[i].Path))
		}
		if !IsKnownSourceType(entries[i].SourceType) {
			return BuildResult{}, fmt.Errorf("source %s has unknown type %q", filepath.Base(entries[i].Path), entries[i].SourceType)
		}
	}

	var inspections []Inspection
	if opts.InspectPDFs {
		inspections = make([]Inspection, 0, len(entries))
		for _, e := range entries {
			inspections = append(inspections, InspectSource(e.Path))
		}
	}

	manifestsDir := strings.TrimSpace(opts.ManifestsDir)
	if manifestsDir == "" {
		manifestsDir = library.DefaultManifestsDir
	}
	sourcesDir := strings.TrimSpace(opts.SourcesDir)
	if sourcesDir == "" {
		sourcesDir = library.DefaultSourcesDir
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = library.DefaultRegion
	}
	priority := strings.TrimSpace(opts.Priority)
	if priority == "" {
		priority = library.DefaultPriority
	}

	lock, err := store.AcquireBuildLock(manifestsDir)
	if err != nil {
		return BuildResult{}, err
	}
	defer func() {
		_ = lock.Release()
	}()

	destDir := filepath.Join(sourcesDir, slug)
	if err := store.Mkdir(destDir); err != nil {
		return BuildResult{}, err
	}

	destPaths := make([]string, len(entries))
	g := new(errgroup.Group)
	g.SetLimit(copyConcurrency)
	for i, e := range entries {
		dest := filepath.Join(destDir, filepath.Base(e.Path))
		destPaths[i] = dest
		src := e.Path
		g.Go(func() error {
			return store.CopyFile(src, dest)
		})
	}
	if err := g.Wait(); err != nil {
		return BuildResult{}, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	manifestPath, err := uniqueManifestPath(manifestsDir, slug, now)
	if err != nil {
		return BuildResult{}, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return BuildResult{}, fmt.Errorf("write manifest header: %w", err)
	}
	for i, e := range entries {
		row := []string{
			destPaths[i],
			e.SourceType,
			collection,
			e.Title,
			year,
			strings.TrimSpace(opts.Authors),
			CitationKey(collection, e.Title),
			region,
			priority,
			"",
		}
		if err := w.Write(row); err != nil {
			return BuildResult{}, fmt.Errorf("write manifest row for %s: %w", filepath.Base(e.Path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return BuildResult{}, fmt.Errorf("flush manifest: %w", err)
	}
	if err := store.WriteBytes(manifestPath, buf.Bytes()); err != nil {
		return BuildResult{}, err
	}

	res := BuildResult{
		SubmissionID: uuid.NewString(),
		Slug:         slug,
		ManifestPath: manifestPath,
		DestDir:      destDir,
		Entries:      len(entries),
		Deduped:      deduped,
		Inspections:  inspections,
	}
	if err := writeReceipt(manifestsDir, Receipt{
		SubmissionID: res.SubmissionID,
		ManifestPath: manifestPath,
		Collection:   collection,
		Entries:      len(entries),
		CreatedAt:    now.UTC().Format(time.RFC3339),
	}); err != nil {
		return BuildResult{}, err
	}

	if strings.TrimSpace(opts.ConfigPath) != "" {
		defaultType := dominantSourceType(entries)
		if _, err := library.UpsertCollection(library.UpsertCollectionOptions{
			ConfigPath:        opts.ConfigPath,
			Name:              collection,
			Year:              year,
			Authors:           strings.TrimSpace(opts.Authors),
			DefaultSourceType: defaultType,
		}); err != nil {
			return BuildResult{}, err
		}
		res.CollectionSaved = true
	}

	return res, nil
}

// DedupeEntries drops entries whose (file name, byte size) pair was already
// seen, preserving order. Missing files are an error.
func DedupeEntries(entries []Entry) ([]Entry, int, error) {
	type key struct {
		name string
		size int64
	}
	seen := make(map[key]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	deduped := 0
	for _, e := range entries {
		path := strings.TrimSpace(e.Path)
		if path == "" {
			return nil, 0, fmt.Errorf("source file path is required")
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, 0, fmt.Errorf("source file %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, 0, fmt.Errorf("source %s is a directory", path)
		}
		k := key{name: filepath.Base(path), size: info.Size()}
		if seen[k] {
			deduped++
			continue
		}
		seen[k] = true
		e.Path = path
		out = append(out, e)
	}
	return out, deduped, nil
}

func dominantSourceType(entries []Entry) string {
	counts := make(map[string]int, 2)
	for _, e := range entries {
		counts[e.SourceType]++
	}
	best := ""
	for t, n := range counts {
		if best == "" || n > counts[best] {
			best = t
		}
	}
	return best
}

// uniqueManifestPath appends -2, -3, ... when a same-second build for the same
// collection already produced the base name.
func uniqueManifestPath(manifestsDir, slug string, now time.Time) (string, error) {
	ts := now.UTC().Format(time.RFC3339)
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	base := fmt.Sprintf("%s-%s", slug, ts)

	candidate := filepath.Join(manifestsDir, base+".manifest.csv")
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}
	for i := 2; i < 10000; i++ {
		candidate = filepath.Join(manifestsDir, fmt.Sprintf("%s-%d.manifest.csv", base, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free manifest name for %s in %s", base, manifestsDir)
}
