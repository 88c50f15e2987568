package cli

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"paperdash/internal/library"
)

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	runID := fs.String("run-id", "", "show one run with summary and dead letters")
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := newPipelineClient(*pipelineBin, *config)
	if err != nil {
		return err
	}

	if id := strings.TrimSpace(*runID); id != "" {
		detail, err := client.RunDetail(id)
		if err != nil {
			return err
		}
		if *jsonOut {
			return printJSON(detail)
		}
		fmt.Printf("run %s [%s]\n", detail.Run.ID, detail.Run.Status)
		fmt.Printf("  created_at: %s\n", detail.Run.CreatedAt)
		if detail.Run.ManifestPath != "" {
			fmt.Printf("  manifest: %s\n", detail.Run.ManifestPath)
		}
		if detail.Run.Error != "" {
			fmt.Printf("  error: %s\n", detail.Run.Error)
		}
		fmt.Println("  sources:")
		statuses := make([]string, 0, len(detail.Summary.Sources))
		for st := range detail.Summary.Sources {
			statuses = append(statuses, st)
		}
		sort.Strings(statuses)
		for _, st := range statuses {
			fmt.Printf("    %s: %d\n", st, detail.Summary.Sources[st])
		}
		fmt.Printf("  dead_letters: %d\n", detail.Summary.DeadLetters)
		fmt.Printf("  unresolved_links: %d\n", detail.Summary.UnresolvedLinks)
		for _, dl := range detail.DeadLetters {
			fmt.Printf("  - %s (retries %d): %s\n", dl.Stage, dl.Retries, dl.Error)
		}
		return nil
	}

	res, err := client.Status()
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	if len(res.Runs) == 0 {
		fmt.Println("no runs reported")
		fmt.Println("next: paperdash build --collection <name> --year <year> --file <pdf>")
		return nil
	}
	for _, r := range res.Runs {
		fmt.Printf("%s [%s] %s\n", r.ID, r.Status, r.CreatedAt)
		if r.ManifestPath != "" {
			fmt.Printf("  manifest: %s\n", r.ManifestPath)
		}
		if r.Error != "" {
			fmt.Printf("  error: %s\n", r.Error)
		}
	}
	return nil
}
