package configcmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rdml-cli/internal/config"
)

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg := &config.Config{
		SourceDir:    "game/rdml",
		Paths:        []string{"intro.rdml", "town.rdml"},
		OutputFormat: "json",
	}
	require.NoError(t, cfg.Save(configPath))

	var out bytes.Buffer
	require.NoError(t, runShow(configPath, true, &out))

	assert.Equal(t, "Source dir: game/rdml  (source: config)\n"+
		"Base URL:   -\n"+
		"Paths:      intro.rdml, town.rdml  (source: config)\n"+
		"Output:     json  (source: config)\n"+
		"Out file:   -\n"+
		"\nConfig file: "+configPath+"\n", out.String())
}

func TestRunShow_EnvOverride(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{SourceDir: "game/rdml"}).Save(configPath))
	t.Setenv("RDML_SOURCE_DIR", "other")
	t.Setenv("RDML_BASE_URL", "https://example.com/rdml")

	var out bytes.Buffer
	require.NoError(t, runShow(configPath, true, &out))
	assert.Contains(t, out.String(), "other  (source: RDML_SOURCE_DIR)")
	assert.Contains(t, out.String(), "https://example.com/rdml  (source: RDML_BASE_URL)")
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	var out bytes.Buffer
	require.NoError(t, runShow(configPath, true, &out))
	assert.Contains(t, out.String(), "Source dir: -\n")
	assert.Contains(t, out.String(), "(file not found)")
}
