package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validTemplates = map[string]bool{"html": true, "python": true, "react": true}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Storage validation
	if c.Storage.Slot == "" {
		errs = append(errs, "storage.slot must not be empty")
	}
	if strings.ContainsAny(c.Storage.Slot, `/\`) {
		errs = append(errs, "storage.slot must not contain path separators")
	}
	if c.Storage.DebounceMs < 0 {
		errs = append(errs, "storage.debounce_ms must be >= 0")
	}
	if !validTemplates[c.Storage.DefaultTemplate] {
		errs = append(errs, "storage.default_template must be one of html, python, react")
	}

	// Remote validation
	if u, err := url.Parse(c.Remote.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "remote.api_base_url must be an absolute URL")
	}
	if c.Remote.Provider == "" {
		errs = append(errs, "remote.provider must not be empty")
	}
	if c.Remote.DefaultProjectName == "" {
		errs = append(errs, "remote.default_project_name must not be empty")
	}

	// Archive validation
	if c.Archive.MaxEntrySize < 1 {
		errs = append(errs, "archive.max_entry_size must be >= 1")
	}

	// Execution validation
	if c.Execution.MaxOutputBytes < 1 {
		errs = append(errs, "execution.max_output_bytes must be >= 1")
	}
	for lang, argv := range c.Execution.Interpreters {
		if len(argv) == 0 {
			errs = append(errs, fmt.Sprintf("execution.interpreters.%s must not be empty", lang))
		}
	}

	// UI validation
	if c.UI.TickIntervalMs < 1 {
		errs = append(errs, "ui.tick_interval_ms must be >= 1")
	}

	// Logging validation
	if !validLogLevels[c.Logging.Level] {
		errs = append(errs, "logging.level must be one of debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, "logging.format must be json or console")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
