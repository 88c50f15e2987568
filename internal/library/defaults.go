package library

const (
	DefaultConfigPath   = "config/library.json"
	DefaultManifestsDir = "manifests"
	DefaultSourcesDir   = "sources"

	DefaultPipelineBinary      = "paperpipe"
	DefaultPollIntervalSeconds = 5

	DefaultRegion   = "global"
	DefaultPriority = "normal"
)

// PipelineEnvVar overrides the configured pipeline binary when set.
const PipelineEnvVar = "PAPERDASH_PIPELINE"
