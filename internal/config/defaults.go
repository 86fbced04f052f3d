package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Storage   StorageConfig   `json:"storage"`
	Remote    RemoteConfig    `json:"remote"`
	Archive   ArchiveConfig   `json:"archive"`
	Assistant AssistantConfig `json:"assistant"`
	Execution ExecutionConfig `json:"execution"`
	UI        UIConfig        `json:"ui"`
	Logging   LoggingConfig   `json:"logging"`
}

type StorageConfig struct {
	// Directory holding the durable slot. Empty means ~/.local/share/vault.
	DataDir         string `json:"data_dir"`
	Slot            string `json:"slot"`             // Default: "hub_vault_v8"
	DebounceMs      int    `json:"debounce_ms"`      // Default: 800
	DefaultTemplate string `json:"default_template"` // Default: "html"
}

type RemoteConfig struct {
	APIBaseURL         string `json:"api_base_url"` // Default: "https://api.github.com"
	Provider           string `json:"provider"`     // Default: "github"
	Token              string `json:"token"`        // Usually supplied via VAULT_GITHUB_TOKEN
	PlaceholderToken   string `json:"placeholder_token"`
	DefaultProjectName string `json:"default_project_name"` // Default: "vault-project"
	Description        string `json:"description"`
	Private            bool   `json:"private"`
	// Upload files under their resolved folder path instead of their bare name.
	PreservePaths bool `json:"preserve_paths"` // Default: false
}

type ArchiveConfig struct {
	MaxEntrySize     int64 `json:"max_entry_size"`    // Default: 20 * 1024 * 1024 (20MB)
	RespectGitignore bool  `json:"respect_gitignore"` // Default: false
}

type AssistantConfig struct {
	Model        string `json:"model"` // Default: "gemini-2.5-flash"
	SystemPrompt string `json:"system_prompt"`
}

type ExecutionConfig struct {
	// Interpreter command per language tag; the file name is appended as the last argument.
	Interpreters   map[string][]string `json:"interpreters"`
	MaxOutputBytes int                 `json:"max_output_bytes"` // Default: 1024 * 1024 (1MB)
}

type UIConfig struct {
	ColorPrimary   string `json:"color_primary"`    // Default: "63"
	ColorMuted     string `json:"color_muted"`      // Default: "241"
	ColorSuccess   string `json:"color_success"`    // Default: "42"
	ColorError     string `json:"color_error"`      // Default: "196"
	TickIntervalMs int    `json:"tick_interval_ms"` // Default: 300
}

type LoggingConfig struct {
	Level      string `json:"level"`       // Default: "info"
	Format     string `json:"format"`      // Default: "console"
	OutputPath string `json:"output_path"` // Default: "stderr"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Slot:            "hub_vault_v8",
			DebounceMs:      800,
			DefaultTemplate: "html",
		},
		Remote: RemoteConfig{
			APIBaseURL:         "https://api.github.com",
			Provider:           "github",
			PlaceholderToken:   "li_neural_access_v8",
			DefaultProjectName: "vault-project",
			Description:        "Pushed from a vault workspace",
		},
		Archive: ArchiveConfig{
			MaxEntrySize: 20 * 1024 * 1024,
		},
		Assistant: AssistantConfig{
			Model:        "gemini-2.5-flash",
			SystemPrompt: "You are a coding assistant. Reply with code only, no commentary.",
		},
		Execution: ExecutionConfig{
			Interpreters: map[string][]string{
				"python":     {"python3"},
				"javascript": {"node"},
				"shell":      {"sh"},
				"ruby":       {"ruby"},
				"go":         {"go", "run"},
			},
			MaxOutputBytes: 1024 * 1024,
		},
		UI: UIConfig{
			ColorPrimary:   "63",
			ColorMuted:     "241",
			ColorSuccess:   "42",
			ColorError:     "196",
			TickIntervalMs: 300,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
