package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "ppuview.json")

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))
	assert.FileExists(t, path)
	assert.False(t, c.IsLoaded(), "defaults were written, not read")
	assert.Equal(t, path, c.GetConfigPath())

	again := NewConfig()
	require.NoError(t, again.LoadFromFile(path))
	assert.True(t, again.IsLoaded())
	assert.Equal(t, c.Window, again.Window)
	assert.Equal(t, c.Video, again.Video)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppuview.json")

	c := NewConfig()
	c.Views.PatternPalette = 3
	c.Views.Sprite8x16 = true
	c.Video.Filter = "linear"
	require.NoError(t, c.SaveToFile(path))

	got := NewConfig()
	require.NoError(t, got.LoadFromFile(path))
	assert.Equal(t, 3, got.Views.PatternPalette)
	assert.True(t, got.Views.Sprite8x16)
	assert.Equal(t, "linear", got.Video.Filter)
}

func TestSaveWithoutPath(t *testing.T) {
	assert.Error(t, NewConfig().Save())
}

func TestValidateClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppuview.json")
	data := `{
  "window": {"width": 800, "height": 600, "scale": 40, "title": ""},
  "video": {"backend": "Terminal", "filter": "bicubic"},
  "views": {"pattern_palette": 7}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, 8, c.Window.Scale)
	assert.Equal(t, "ppuview", c.Window.Title)
	assert.Equal(t, "terminal", c.Video.Backend)
	assert.Equal(t, "nearest", c.Video.Filter)
	assert.Equal(t, 0, c.Views.PatternPalette)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"zero width", `{"window": {"width": 0, "height": 600}}`, "window"},
		{"unknown backend", `{"video": {"backend": "vulkan"}}`, "video.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ppuview.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			err := NewConfig().LoadFromFile(path)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppuview.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	assert.Error(t, NewConfig().LoadFromFile(path))
}
