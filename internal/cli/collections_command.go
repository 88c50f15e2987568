package cli

import (
	"flag"
	"fmt"
	"strings"

	"paperdash/internal/library"
)

func runCollections(args []string) error {
	fs := flag.NewFlagSet("collections", flag.ContinueOnError)
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cols, err := library.ListCollections(strings.TrimSpace(*config))
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": strings.TrimSpace(*config),
			"collections": cols,
		})
	}
	if len(cols) == 0 {
		fmt.Println("no saved collections yet; they are saved on each manifest build")
		return nil
	}
	for _, c := range cols {
		line := fmt.Sprintf("- %s (%s)", c.Name, c.Year)
		if c.Authors != "" {
			line += " by " + c.Authors
		}
		fmt.Println(line)
	}
	return nil
}
