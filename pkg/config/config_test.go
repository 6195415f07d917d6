package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/filesync/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, models.ModeSync, cfg.Sync.Mode)
	assert.Equal(t, models.MergeSource, cfg.Sync.Merge)
	assert.Equal(t, models.MergeSkip, cfg.Sync.Fallback)
	assert.Equal(t, models.TraversalSource, cfg.Sync.Traversal)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"UnknownMode", func(c *Config) { c.Sync.Mode = "twoway" }, "sync.mode"},
		{"UnknownMerge", func(c *Config) { c.Sync.Merge = "largest" }, "sync.merge"},
		{"NonTerminalFallback", func(c *Config) { c.Sync.Fallback = models.MergeNewer }, "sync.fallback"},
		{"UnknownTraversal", func(c *Config) { c.Sync.Traversal = "both" }, "sync.traversal"},
		{"OutputFormat", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrConfiguration)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Sync.Merge = models.MergeBigger
	cfg.Sync.Fallback = models.MergeTarget
	cfg.Output.Verbose = true
	cfg.Logging.Format = "json"
	cfg.Exclude = []string{"*.tmp", ".git/"}

	require.NoError(t, SaveToFile(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  merge: newer\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, models.MergeNewer, cfg.Sync.Merge)
	assert.Equal(t, models.MergeSkip, cfg.Sync.Fallback)
	assert.Equal(t, "human", cfg.Output.Format)
}

func TestLoadFromFileCanonicalizesPolicies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlText := "sync:\n  mode: Mirroring\n  merge: BIGGER\n  fallback: Target\n  traversal: SOURCE\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, models.ModeMirroring, cfg.Sync.Mode)
	assert.Equal(t, models.MergeBigger, cfg.Sync.Merge)
	assert.Equal(t, models.MergeTarget, cfg.Sync.Fallback)
	assert.Equal(t, models.TraversalSource, cfg.Sync.Traversal)
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sync:\n  fallback: intervention\n"), 0644))
	_, err = LoadFromFile(bad)
	assert.ErrorIs(t, err, models.ErrConfiguration)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("sync: [\n"), 0644))
	_, err = LoadFromFile(broken)
	assert.Error(t, err)
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  merge_mode: newer\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge_mode")
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaultConfigPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "filesync", "config.yaml"), path)
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
