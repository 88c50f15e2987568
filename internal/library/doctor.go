package library

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"paperdash/internal/store"
)

type DoctorOptions struct {
	ConfigPath     string
	PipelineBinary string
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type InitWorkspaceOptions struct {
	ConfigPath     string
	PipelineBinary string
}

type InitWorkspaceResult struct {
	ConfigPath    string       `json:"config_path"`
	ManifestsDir  string       `json:"manifests_dir"`
	SourcesDir    string       `json:"sources_dir"`
	CreatedConfig bool         `json:"created_config"`
	DoctorResult  DoctorResult `json:"doctor"`
}

func Doctor(opts DoctorOptions) (DoctorResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	settings, err := ReadSettings(configPath)
	if err != nil {
		return DoctorResult{}, err
	}
	binary := ResolvePipelineBinary(opts.PipelineBinary, settings)

	checks := make([]DoctorCheck, 0, 4)
	if path, lookErr := exec.LookPath(binary); lookErr == nil {
		checks = append(checks, DoctorCheck{
			Name:    "dependency:pipeline",
			OK:      true,
			Message: binary + " found at " + path,
		})
	} else {
		checks = append(checks, DoctorCheck{
			Name:    "dependency:pipeline",
			OK:      false,
			Message: binary + " not found on PATH",
		})
	}

	manifestsOK, manifestsMessage := ensureWritableDir(settings.ManifestsDir)
	checks = append(checks, DoctorCheck{
		Name:    "directory:manifests",
		OK:      manifestsOK,
		Message: manifestsMessage,
	})

	sourcesOK, sourcesMessage := ensureWritableDir(settings.SourcesDir)
	checks = append(checks, DoctorCheck{
		Name:    "directory:sources",
		OK:      sourcesOK,
		Message: sourcesMessage,
	})

	cfgOK, cfgMessage := ensureWritableDir(filepath.Dir(configPath))
	checks = append(checks, DoctorCheck{
		Name:    "directory:config",
		OK:      cfgOK,
		Message: cfgMessage,
	})

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}
	return DoctorResult{OK: ok, Checks: checks}, nil
}

func InitWorkspace(opts InitWorkspaceOptions) (InitWorkspaceResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)

	reg, createdConfig, err := EnsureRegistry(configPath)
	if err != nil {
		return InitWorkspaceResult{}, err
	}
	if err := store.Mkdir(reg.Settings.ManifestsDir); err != nil {
		return InitWorkspaceResult{}, err
	}
	if err := store.Mkdir(reg.Settings.SourcesDir); err != nil {
		return InitWorkspaceResult{}, err
	}

	doc, err := Doctor(DoctorOptions{ConfigPath: configPath, PipelineBinary: opts.PipelineBinary})
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	return InitWorkspaceResult{
		ConfigPath:    configPath,
		ManifestsDir:  reg.Settings.ManifestsDir,
		SourcesDir:    reg.Settings.SourcesDir,
		CreatedConfig: createdConfig,
		DoctorResult:  doc,
	}, nil
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := store.Mkdir(path); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "paperdash-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}
