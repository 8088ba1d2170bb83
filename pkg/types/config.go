package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "reqif-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ParserConfig holds settings for the ReqIF parsing stage.
type ParserConfig struct {
	// KeepExtensions preserves unrecognized vendor XML blocks verbatim
	// on each requirement.
	KeepExtensions bool `json:"keep_extensions" yaml:"keep_extensions"`

	// DecodeAttachments decodes embedded base64 payloads into
	// Requirement.Attachments.
	DecodeAttachments bool `json:"decode_attachments" yaml:"decode_attachments"`
}

// SyncConfig holds settings for the GitHub issue sync stage.
type SyncConfig struct {
	HTTPConfig `yaml:",inline"`

	// Repository is the target repository in "owner/repo" form.
	Repository string `json:"repository" yaml:"repository"`

	// Token is the GitHub API token. Usually loaded from
	// .secrets/github-token rather than the config file.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Labels are applied to every created issue (default ["requirement"]).
	Labels []string `json:"labels" yaml:"labels"`

	// CloseMissing closes issues whose requirement ids are absent from
	// the latest parse.
	CloseMissing bool `json:"close_missing" yaml:"close_missing"`

	// DryRun reports planned changes without calling the API.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// InterCallDelay is the pause between consecutive write calls
	// (default 500ms).
	InterCallDelay time.Duration `json:"inter_call_delay" yaml:"inter_call_delay"`

	// MaxRetries bounds retry attempts on rate-limited calls (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BoardFields names project-board custom fields to populate from
	// requirement attributes by name matching.
	BoardFields []string `json:"board_fields" yaml:"board_fields"`
}

// ExportFormat selects the export output format.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// OutputDir is the directory for exported collections (default "export").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects yaml or json.
	Format ExportFormat `json:"format" yaml:"format"`
}

// StoreConfig holds settings for the sync-state store.
type StoreConfig struct {
	// StateDir is the directory containing the SQLite state database
	// (default ".reqif-engine").
	StateDir string `json:"state_dir" yaml:"state_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Parser ParserConfig `json:"parser" yaml:"parser"`
	Sync   SyncConfig   `json:"sync" yaml:"sync"`
	Export ExportConfig `json:"export" yaml:"export"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
