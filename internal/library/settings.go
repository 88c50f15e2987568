package library

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Settings is the explicit configuration object threaded into the orchestrator
// and builder. There is no global instance; callers load and pass it.
type Settings struct {
	PipelineBinary      string `json:"pipeline_binary,omitempty"`
	ManifestsDir        string `json:"manifests_dir,omitempty"`
	SourcesDir          string `json:"sources_dir,omitempty"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	Region              string `json:"region,omitempty"`
	Priority            string `json:"priority,omitempty"`
}

type UpdateSettingsOptions struct {
	ConfigPath string
	Settings   Settings
}

type UpdateSettingsResult struct {
	ConfigPath string   `json:"config_path"`
	Settings   Settings `json:"settings"`
}

func defaultSettings() Settings {
	return Settings{
		PipelineBinary:      DefaultPipelineBinary,
		ManifestsDir:        DefaultManifestsDir,
		SourcesDir:          DefaultSourcesDir,
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		Region:              DefaultRegion,
		Priority:            DefaultPriority,
	}
}

func normalizeSettings(raw Settings) Settings {
	norm := raw
	if strings.TrimSpace(norm.PipelineBinary) == "" {
		norm.PipelineBinary = DefaultPipelineBinary
	}
	if strings.TrimSpace(norm.ManifestsDir) == "" {
		norm.ManifestsDir = DefaultManifestsDir
	}
	if strings.TrimSpace(norm.SourcesDir) == "" {
		norm.SourcesDir = DefaultSourcesDir
	}
	if norm.PollIntervalSeconds < 0 {
		norm.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if strings.TrimSpace(norm.Region) == "" {
		norm.Region = DefaultRegion
	}
	if strings.TrimSpace(norm.Priority) == "" {
		norm.Priority = DefaultPriority
	}
	return norm
}

// ReadSettings returns the persisted settings, or defaults when the registry
// does not exist yet. It never creates the registry.
func ReadSettings(configPath string) (Settings, error) {
	path := normalizeConfigPath(configPath)
	reg, err := loadRegistry(path)
	if err == nil {
		return reg.Settings, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return defaultSettings(), nil
	}
	return Settings{}, err
}

func GetSettings(configPath string) (Settings, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return Settings{}, err
	}
	return reg.Settings, nil
}

func UpdateSettings(opts UpdateSettingsOptions) (UpdateSettingsResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return UpdateSettingsResult{}, err
	}
	reg.Settings = normalizeSettings(opts.Settings)
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(configPath, reg); err != nil {
		return UpdateSettingsResult{}, err
	}
	return UpdateSettingsResult{
		ConfigPath: configPath,
		Settings:   reg.Settings,
	}, nil
}

// ResolvePipelineBinary picks the pipeline executable: explicit override,
// then PAPERDASH_PIPELINE, then the settings value.
func ResolvePipelineBinary(override string, settings Settings) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(PipelineEnvVar)); v != "" {
		return v
	}
	if v := strings.TrimSpace(settings.PipelineBinary); v != "" {
		return v
	}
	return DefaultPipelineBinary
}

func (s Settings) PollInterval() time.Duration {
	if s.PollIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(s.PollIntervalSeconds) * time.Second
}
