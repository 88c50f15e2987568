package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"paperdash/internal/library"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := library.InitWorkspace(library.InitWorkspaceOptions{
		ConfigPath:     strings.TrimSpace(*config),
		PipelineBinary: strings.TrimSpace(*pipelineBin),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	if res.CreatedConfig {
		fmt.Printf("created %s\n", res.ConfigPath)
	} else {
		fmt.Printf("using existing %s\n", res.ConfigPath)
	}
	fmt.Printf("manifests dir: %s\n", res.ManifestsDir)
	fmt.Printf("sources dir: %s\n", res.SourcesDir)
	printDoctorChecks(res.DoctorResult)
	if !res.DoctorResult.OK {
		return errors.New("workspace initialized with failing checks")
	}
	return nil
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := library.Doctor(library.DoctorOptions{
		ConfigPath:     strings.TrimSpace(*config),
		PipelineBinary: strings.TrimSpace(*pipelineBin),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	printDoctorChecks(res)
	if !res.OK {
		return errors.New("doctor found problems")
	}
	fmt.Println("all checks passed")
	return nil
}

func printDoctorChecks(res library.DoctorResult) {
	for _, check := range res.Checks {
		mark := "ok"
		if !check.OK {
			mark = "FAIL"
		}
		fmt.Printf("[%s] %s: %s\n", mark, check.Name, check.Message)
	}
}
