package cli

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"

	"paperdash/internal/library"
	"paperdash/internal/manifest"
	"paperdash/internal/pipeline"
)

func runIngest(args []string) error {
	return runSubmit("ingest", args)
}

func runDryRun(args []string) error {
	return runSubmit("dry-run", args)
}

func runSubmit(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	manifestPath := fs.String("manifest", "", "manifest CSV path")
	latest := fs.Bool("latest", false, "use the most recently built manifest")
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, settings, err := newPipelineClient(*pipelineBin, *config)
	if err != nil {
		return err
	}
	path, err := resolveManifestArg(*manifestPath, *latest, settings)
	if err != nil {
		return err
	}

	var res pipeline.IngestResult
	if name == "dry-run" {
		res, err = client.DryRun(path)
	} else {
		res, err = client.Ingest(path)
	}
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("%s accepted: %s\n", name, path)
	statuses := make([]string, 0, len(res.Summary.Sources))
	for st := range res.Summary.Sources {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Printf("  %s: %d\n", st, res.Summary.Sources[st])
	}
	if name == "ingest" {
		fmt.Println("next: paperdash status")
	}
	return nil
}

func resolveManifestArg(manifestPath string, latest bool, settings library.Settings) (string, error) {
	path := strings.TrimSpace(manifestPath)
	if path != "" && latest {
		return "", errors.New("set --manifest or --latest, not both")
	}
	if path != "" {
		return path, nil
	}
	if !latest {
		return "", errors.New("--manifest <path> or --latest is required")
	}
	receipt, err := manifest.LatestReceipt(settings.ManifestsDir)
	if err != nil {
		return "", fmt.Errorf("no recent build found (run paperdash build first): %w", err)
	}
	return receipt.ManifestPath, nil
}

func runRetry(args []string) error {
	fs := flag.NewFlagSet("retry", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run whose dead letters should be retried")
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := strings.TrimSpace(*runID)
	if id == "" {
		return errors.New("--run-id is required")
	}

	client, _, err := newPipelineClient(*pipelineBin, *config)
	if err != nil {
		return err
	}
	if err := client.Retry(id); err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{"run_id": id, "retried": true})
	}
	fmt.Printf("retry requested for run %s\n", id)
	return nil
}

func runReconcile(args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	scope := fs.String("scope", "all", "reconcile scope")
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
	res, err := client.ReconcileLinks(*scope)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	fmt.Printf("resolved %d links\n", res.Resolved)
	return nil
}
