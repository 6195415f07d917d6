package config

import (
	"errors"
	"fmt"

	"github.com/sdejongh/filesync/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Sync    SyncConfig    `yaml:"sync"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Exclude []string      `yaml:"exclude"`
}

// SyncConfig holds reconciliation settings
type SyncConfig struct {
	Mode      models.SyncMode       `yaml:"mode"`
	Merge     models.MergePolicy    `yaml:"merge"`
	Fallback  models.FallbackPolicy `yaml:"fallback"`
	Traversal models.Traversal      `yaml:"traversal"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Verbose  bool   `yaml:"verbose"`  // Print one line per entry
	Progress bool   `yaml:"progress"` // Show a progress bar on terminals
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Mode:      models.ModeSync,
			Merge:     models.MergeSource,
			Fallback:  models.MergeSkip,
			Traversal: models.TraversalSource,
		},
		Output: OutputConfig{
			Format:   "human",
			Verbose:  false,
			Progress: true,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "",
			File:   "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid. Policy names are matched
// case-insensitively and stored back in canonical form.
func (c *Config) Validate() error {
	mode, err := models.ParseSyncMode(string(c.Sync.Mode))
	if err != nil {
		return relabel("sync.mode", err)
	}

	merge, err := models.ParseMergePolicy(string(c.Sync.Merge))
	if err != nil {
		return relabel("sync.merge", err)
	}

	fallback, err := models.ParseMergePolicy(string(c.Sync.Fallback))
	if err != nil {
		return relabel("sync.fallback", err)
	}
	if !fallback.IsTerminal() {
		return &models.ValidationError{
			Field:   "sync.fallback",
			Message: fmt.Sprintf("%q cannot be used as a fallback (valid: source, target, bigger, skip)", fallback),
		}
	}

	traversal, err := models.ParseTraversal(string(c.Sync.Traversal))
	if err != nil {
		return relabel("sync.traversal", err)
	}

	c.Sync.Mode, c.Sync.Merge, c.Sync.Fallback, c.Sync.Traversal = mode, merge, fallback, traversal

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// relabel moves a parse error onto the config key it came from
func relabel(field string, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return &models.ValidationError{Field: field, Message: ve.Message}
	}
	return &models.ValidationError{Field: field, Message: err.Error()}
}
