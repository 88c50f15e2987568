package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "status":
		return runStatus(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "dry-run":
		return runDryRun(args[1:])
	case "retry":
		return runRetry(args[1:])
	case "reconcile":
		return runReconcile(args[1:])
	case "build":
		return runBuild(args[1:])
	case "compose":
		return runCompose(args[1:])
	case "dashboard":
		return runDashboard(args[1:])
	case "watch":
		return runWatch(args[1:])
	case "collections":
		return runCollections(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "init":
		return runInit(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("paperdash: terminal dashboard for the document ingestion pipeline")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  paperdash init")
	fmt.Println("  paperdash build --collection <name> --year <year> --file <pdf> [--file <pdf> ...]")
	fmt.Println("  paperdash ingest --latest")
	fmt.Println("  paperdash dashboard")
	fmt.Println()
	fmt.Println("Pipeline Commands:")
	fmt.Println("  status      list runs, or one run with --run-id")
	fmt.Println("  ingest      submit a manifest for ingestion")
	fmt.Println("  dry-run     validate a manifest without publishing")
	fmt.Println("  retry       re-queue a run's dead letters")
	fmt.Println("  reconcile   resolve unresolved cross-references")
	fmt.Println()
	fmt.Println("Manifest Commands:")
	fmt.Println("  build       build a manifest from source files (non-interactive)")
	fmt.Println("  compose     interactive manifest wizard")
	fmt.Println("  collections list saved collection templates")
	fmt.Println()
	fmt.Println("Workspace Commands:")
	fmt.Println("  dashboard   interactive run dashboard with periodic refresh")
	fmt.Println("  watch       plain auto-refreshing run board")
	fmt.Println("  settings    show/update local settings")
	fmt.Println("  init        create workspace config + run preflight checks")
	fmt.Println("  doctor      run dependency and filesystem preflight checks")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Set PAPERDASH_PIPELINE or --pipeline to override the pipeline binary")
}
