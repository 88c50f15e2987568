package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"paperdash/internal/library"
	"paperdash/internal/manifest"
)

type stringListFlag []string

func (f *stringListFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *stringListFlag) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty value")
	}
	*f = append(*f, v)
	return nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	var files stringListFlag
	fs.Var(&files, "file", "source file (repeatable)")
	collection := fs.String("collection", "", "collection or book name")
	year := fs.String("year", "", "year or edition")
	authors := fs.String("authors", "", "authors string")
	sourceType := fs.String("type", "", "force source type for all files: textbook_chapter|research_article (default: classify per file)")
	inspect := fs.Bool("inspect", false, "read PDF page counts before building")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := strings.TrimSpace(*collection)
	if name == "" {
		var err error
		name, err = promptRequired("collection name")
		if err != nil {
			return err
		}
	}

	settings, err := library.ReadSettings(*config)
	if err != nil {
		return err
	}

	// Pre-fill year/authors from the saved collection when flags are empty.
	resolvedYear := strings.TrimSpace(*year)
	resolvedAuthors := strings.TrimSpace(*authors)
	if saved, findErr := library.FindCollection(*config, name); findErr == nil {
		if resolvedYear == "" {
			resolvedYear = saved.Year
		}
		if resolvedAuthors == "" {
			resolvedAuthors = saved.Authors
		}
	}

	entries := make([]manifest.Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, manifest.Entry{
			Path:       strings.TrimSpace(f),
			Title:      titleFromFile(f),
			SourceType: strings.TrimSpace(*sourceType),
		})
	}

	res, err := manifest.Build(manifest.BuildOptions{
		ConfigPath:   *config,
		ManifestsDir: settings.ManifestsDir,
		SourcesDir:   settings.SourcesDir,
		Collection:   name,
		Year:         resolvedYear,
		Authors:      resolvedAuthors,
		Region:       settings.Region,
		Priority:     settings.Priority,
		Entries:      entries,
		InspectPDFs:  *inspect,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("manifest built: %s\n", res.ManifestPath)
	fmt.Printf("collection: %s (%s)\n", name, res.Slug)
	fmt.Printf("entries: %d", res.Entries)
	if res.Deduped > 0 {
		fmt.Printf(" (%d duplicate file(s) skipped)", res.Deduped)
	}
	fmt.Println()
	for _, ins := range res.Inspections {
		switch {
		case ins.Skipped:
			fmt.Printf("  %s: not a pdf, skipped\n", filepath.Base(ins.Path))
		case ins.Error != "":
			fmt.Printf("  %s: %s\n", filepath.Base(ins.Path), ins.Error)
		default:
			fmt.Printf("  %s: %d page(s)\n", filepath.Base(ins.Path), ins.Pages)
		}
	}
	fmt.Println("next: paperdash dry-run --latest")
	return nil
}

// titleFromFile derives a default title from the file name stem.
func titleFromFile(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
