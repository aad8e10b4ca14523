package lidar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {

	cfg := DefaultConfig()

	assert.Equal(t, "output", cfg.Output)
	assert.EqualValues(t, 2, cfg.Concurrency)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, D96TM, cfg.CoordinateSystem)
}

func TestParseConfig(t *testing.T) {

	cfg, err := ParseConfig([]byte(`
output: tiles
concurrency: 4
timeout: 90s
base_url: http://mirror.example/lidar
user_agent: survey-bot/1
coordinate_system: d48gk
`))

	require.NoError(t, err)
	assert.Equal(t, Config{
		Output:           "tiles",
		Concurrency:      4,
		Timeout:          90 * time.Second,
		BaseURL:          "http://mirror.example/lidar",
		UserAgent:        "survey-bot/1",
		CoordinateSystem: D48GK,
	}, cfg)

	f := cfg.Fetcher()
	assert.Equal(t, 90*time.Second, f.Timeout)
	assert.Equal(t, []Header{{"User-Agent", "survey-bot/1"}}, f.Header)
}

func TestParseConfigPartial(t *testing.T) {

	cfg, err := ParseConfig([]byte("concurrency: 1\n"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Concurrency = 1
	assert.Equal(t, want, cfg)
	assert.Empty(t, cfg.Fetcher().Header)
}

func TestParseConfigErrors(t *testing.T) {

	for name, data := range map[string]string{
		"yaml":    "output: [",
		"timeout": "timeout: soon",
		"system":  "coordinate_system: wgs84",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.Error(t, err)
		})
	}

	_, err := ParseConfig([]byte("coordinate_system: utm"))
	assert.ErrorIs(t, err, ErrUnknownCoordinateSystem)
}

func TestLoadConfig(t *testing.T) {

	path := filepath.Join(t.TempDir(), "lidar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: out2\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "out2", cfg.Output)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
