package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "GENERATED_README.md", cfg.Out)
	assert.True(t, cfg.UseLLM)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 20, cfg.MaxFileSamples)
	assert.Equal(t, 8000, cfg.MaxPayloadChars)
	assert.Equal(t, 1200, cfg.PerFileCharCap)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.True(t, cfg.UseGitignore)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readmegen.toml")
	body := `
out = "docs/README.md"
provider = "openai"
model = "gpt-4o-mini"
max_file_samples = 5
use_llm = false
ignore = ["*.min.js", "generated/"]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs/README.md", cfg.Out)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 5, cfg.MaxFileSamples)
	assert.False(t, cfg.UseLLM)
	assert.Equal(t, []string{"*.min.js", "generated/"}, cfg.IgnorePatterns)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8000, cfg.MaxPayloadChars)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readmegen.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_samples = 5\n"), 0o644))

	t.Setenv("READMEGEN_MAX_SAMPLES", "7")
	t.Setenv("READMEGEN_IGNORE", "*.log, tmp/")
	t.Setenv("READMEGEN_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxFileSamples)
	assert.Equal(t, []string{"*.log", "tmp/"}, cfg.IgnorePatterns)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingNamedFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_BadTOMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("out = [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("READMEGEN_MAX_SAMPLES", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().MaxFileSamples, cfg.MaxFileSamples)
}
