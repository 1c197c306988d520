package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
servers:
  hapi:
    url: https://hapi.fhir.org/baseR4
    version: r4
    headers:
      Authorization: Bearer abc
    cookie: sid=abc123
validator:
  customResourceTypes: [Widget]
  customModifiers: [fuzzy]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	s, err := cfg.GetServer("hapi")
	require.NoError(t, err)
	assert.Equal(t, "https://hapi.fhir.org/baseR4", s.URL)
	assert.Equal(t, "r4", s.Version)
	assert.Equal(t, "Bearer abc", s.Headers["Authorization"])
	assert.Equal(t, "sid=abc123", s.Cookie)

	assert.Equal(t, []string{"Widget"}, cfg.Validator.CustomResourceTypes)
	assert.Equal(t, []string{"fuzzy"}, cfg.Validator.CustomModifiers)
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
  "servers": {"local": {"url": "http://localhost:8080/fhir"}}
}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	s, err := cfg.GetServer("local")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/fhir", s.URL)
}

func TestLoadConfigParseError(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "servers: [not: a: map")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigParse)
}

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadConfigEnvVar(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "servers: {}")
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.NotNil(t, cfg.Servers)
}

func TestLoadConfigInvalidServer(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
servers:
  broken:
    version: r9
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field 'url'")
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLoadConfigResolvesHeaderEnvVars(t *testing.T) {
	t.Setenv("FHIR_TOKEN", "s3cret")
	path := writeTempConfig(t, "config.yaml", `
servers:
  hapi:
    url: https://hapi.fhir.org/baseR4
    headers:
      Authorization: Bearer ${FHIR_TOKEN}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	s, err := cfg.GetServer("hapi")
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", s.Headers["Authorization"])
}

func TestGetServerNotFound(t *testing.T) {
	cfg := Config{Servers: Servers{}}
	_, err := cfg.GetServer("missing")
	assert.ErrorIs(t, err, ErrServerNotFound)

	_, err = cfg.GetServer("")
	assert.Error(t, err)
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := &Config{
		Servers: Servers{"hapi": {URL: "https://hapi.fhir.org/baseR4", Version: "r4"}},
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	s, err := loaded.GetServer("hapi")
	require.NoError(t, err)
	assert.Equal(t, "https://hapi.fhir.org/baseR4", s.URL)
}
