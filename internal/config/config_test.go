package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Djoe-Denne/vocal-agent/internal/config"
)

func TestDefaultHasSaneFallbackValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, uint16(8080), cfg.Server.Port)
	assert.True(t, cfg.Service.Alignment.Enabled)
	assert.Equal(t, "auto", cfg.Service.Asr.DefaultLanguage)
}

func TestLoadMergesDocumentOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
service:
  alignment:
    enabled: false
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(9090), cfg.Server.Port)
	assert.False(t, cfg.Service.Alignment.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadReturnsErrorWhenFileMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPipelineStepRefAcceptsBareStringOrMapping(t *testing.T) {
	var bare config.PipelineStepRef
	require.NoError(t, yaml.Unmarshal([]byte(`resample`), &bare))
	assert.Equal(t, "resample", bare.Name)

	var mapping config.PipelineStepRef
	require.NoError(t, yaml.Unmarshal([]byte("name: resample\n"), &mapping))
	assert.Equal(t, "resample", mapping.Name)
}
