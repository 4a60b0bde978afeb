package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentsFromFile_MissingReturnsDefault(t *testing.T) {
	cfg, err := LoadEnvironmentsFromFile(filepath.Join(t.TempDir(), "environments.yaml"))

	require.NoError(t, err)
	require.Len(t, cfg.Environments, 1)
	assert.Equal(t, "Local", cfg.Environments[0].Name)
	assert.Equal(t, "http://localhost:8000", cfg.Environments[0].URL)
}

func TestSaveAndLoadEnvironments(t *testing.T) {
	path := filepath.Join(t.TempDir(), DirName, "environments.yaml")

	cfg := &Config{}
	require.NoError(t, cfg.Add(Environment{Name: "Lab", URL: "https://osmf.lab", APIKey: "OSMF_LAB_KEY"}))
	require.NoError(t, cfg.Add(Environment{Name: "Offline", GraphDir: "/srv/graphs"}))
	cfg.Selected = "Lab"
	require.NoError(t, SaveEnvironmentsToFile(cfg, path))

	loaded, err := LoadEnvironmentsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	env, ok := loaded.Find("Offline")
	require.True(t, ok)
	assert.Equal(t, "/srv/graphs", env.GraphDir)
}

func TestLoadEnvironmentsFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environments: [:"), 0o644))

	_, err := LoadEnvironmentsFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestConfig_AddRemove(t *testing.T) {
	cfg := &Config{Selected: "Lab"}
	require.NoError(t, cfg.Add(Environment{Name: "Lab"}))

	assert.Error(t, cfg.Add(Environment{Name: "Lab"}))
	assert.Error(t, cfg.Add(Environment{}))

	require.NoError(t, cfg.Remove("Lab"))
	assert.Empty(t, cfg.Environments)
	assert.Empty(t, cfg.Selected)
	assert.Error(t, cfg.Remove("Lab"))
}
