package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"paperdash/internal/library"
	"paperdash/internal/pipeline"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func promptRequired(label string) (string, error) {
	if !stdinIsTTY() {
		return "", fmt.Errorf("%s is required", label)
	}
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return value, nil
}

func stdinIsTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// newPipelineClient resolves the pipeline binary for a command invocation.
func newPipelineClient(override, configPath string) (pipeline.Client, library.Settings, error) {
	settings, err := library.ReadSettings(configPath)
	if err != nil {
		return pipeline.Client{}, library.Settings{}, err
	}
	binary := library.ResolvePipelineBinary(override, settings)
	return pipeline.NewClient(binary), settings, nil
}
