package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"paperdash/internal/library"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := library.GetSettings(strings.TrimSpace(*config))
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": strings.TrimSpace(*config),
			"settings":    settings,
		})
	}

	fmt.Printf("config: %s\n", strings.TrimSpace(*config))
	fmt.Printf("pipeline_binary: %s\n", settings.PipelineBinary)
	fmt.Printf("manifests_dir: %s\n", settings.ManifestsDir)
	fmt.Printf("sources_dir: %s\n", settings.SourcesDir)
	fmt.Printf("poll_interval_seconds: %d\n", settings.PollIntervalSeconds)
	fmt.Printf("region: %s\n", settings.Region)
	fmt.Printf("priority: %s\n", settings.Priority)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	pipelineBin := fs.String("pipeline", "", "pipeline binary (empty keeps current)")
	manifestsDir := fs.String("manifests-dir", "", "manifests directory (empty keeps current)")
	sourcesDir := fs.String("sources-dir", "", "sources directory (empty keeps current)")
	pollInterval := fs.Int("poll-interval", -1, "status poll interval in seconds (0 disables, -1 keeps current)")
	region := fs.String("region", "", "manifest region column value (empty keeps current)")
	priority := fs.String("priority", "", "manifest priority column value (empty keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	settings, err := library.GetSettings(configPath)
	if err != nil {
		return err
	}

	if strings.TrimSpace(*pipelineBin) != "" {
		settings.PipelineBinary = strings.TrimSpace(*pipelineBin)
	}
	if strings.TrimSpace(*manifestsDir) != "" {
		settings.ManifestsDir = strings.TrimSpace(*manifestsDir)
	}
	if strings.TrimSpace(*sourcesDir) != "" {
		settings.SourcesDir = strings.TrimSpace(*sourcesDir)
	}
	if *pollInterval != -1 {
		if *pollInterval < 0 {
			return errors.New("--poll-interval must be >= 0")
		}
		settings.PollIntervalSeconds = *pollInterval
	}
	if strings.TrimSpace(*region) != "" {
		settings.Region = strings.TrimSpace(*region)
	}
	if strings.TrimSpace(*priority) != "" {
		settings.Priority = strings.TrimSpace(*priority)
	}

	res, err := library.UpdateSettings(library.UpdateSettingsOptions{
		ConfigPath: configPath,
		Settings:   settings,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("updated settings in %s\n", res.ConfigPath)
	fmt.Printf("pipeline_binary: %s\n", res.Settings.PipelineBinary)
	fmt.Printf("manifests_dir: %s\n", res.Settings.ManifestsDir)
	fmt.Printf("sources_dir: %s\n", res.Settings.SourcesDir)
	fmt.Printf("poll_interval_seconds: %d\n", res.Settings.PollIntervalSeconds)
	return nil
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show")
	fmt.Println("  settings set [--pipeline <bin>] [--manifests-dir <dir>] [--sources-dir <dir>]")
	fmt.Println("               [--poll-interval N] [--region <v>] [--priority <v>]")
}
