package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/emojiserve/pkg/frecency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.History.Enabled)
	assert.Equal(t, 7*24*time.Hour, c.HalfLife())
	assert.Equal(t, ".png", c.Assets.Ext)
	assert.Empty(t, c.Corpus.Path)
}

func TestHalfLifeFallsBackToFrecencyDefault(t *testing.T) {
	for _, days := range []float64{0, -3} {
		c := DefaultConfig()
		c.Frecency.HalfLifeDays = days
		assert.Equal(t, frecency.DefaultHalfLife, c.HalfLife(), "days %v", days)
	}
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)

	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[history]
path = "/tmp/h.jsonl"
enabled = false

[frecency]
half_life_days = 1

[corpus]
path = "emoji.txt"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.jsonl", c.History.Path)
	assert.False(t, c.History.Enabled)
	assert.Equal(t, 24*time.Hour, c.HalfLife())
	assert.Equal(t, "emoji.txt", c.Corpus.Path)
	assert.True(t, c.CLI.Color)

	_, err = c.HistoryPath()
	assert.Error(t, err)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[history]
path = "/tmp/other.jsonl"

[frecency]
half_life_days = "a week"

[assets]
dir = "/img"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.jsonl", c.History.Path)
	assert.Equal(t, 7.0, c.Frecency.HalfLifeDays)
	assert.Equal(t, "/img", c.Assets.Dir)
}

func TestLoadConfigGarbageFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[[[ not toml"), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cli]\ncolor = false\n"), 0644))

	c, used, err := LoadConfigWithPriority(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.False(t, c.CLI.Color)

	c, used, err = LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), c)
}

func TestHistoryPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := DefaultConfig().HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".emojiserve", "history.jsonl"), p)
}
