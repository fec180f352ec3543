package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goglass.toml")
	cfg := `
width = 800
mode = "record"
duration = 2.5
progress = 0.3

[assets]
model = "other.glb"
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 720, o.Height)
	assert.Equal(t, ModeRecord, o.Mode)
	assert.Equal(t, 2.5, o.Duration)
	assert.Equal(t, 0.3, o.Progress)
	assert.Equal(t, "other.glb", o.Assets.Model)
	assert.Equal(t, "static/grain.jpg", o.Assets.Grain)
	require.NoError(t, o.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = ["), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(o *SceneOptions){
		"zero width":    func(o *SceneOptions) { o.Width = 0 },
		"zero fps":      func(o *SceneOptions) { o.FPS = 0 },
		"unknown mode":  func(o *SceneOptions) { o.Mode = "stream" },
		"record no dur": func(o *SceneOptions) { o.Mode = ModeRecord; o.Duration = 0 },
		"progress high": func(o *SceneOptions) { o.Progress = 1.5 },
		"headless live": func(o *SceneOptions) { o.Headless = true },
	}
	for name, mutate := range cases {
		o := Default()
		mutate(o)
		assert.Error(t, o.Validate(), name)
	}
}

func TestHeadlessRecordIsValid(t *testing.T) {
	o := Default()
	o.Mode = ModeRecord
	o.Headless = true
	assert.NoError(t, o.Validate())
}

func TestProgressKnob(t *testing.T) {
	o := Default()
	assert.InDelta(t, 0.3, o.SetProgress(0.27), 1e-9)
	assert.Equal(t, 1.0, o.SetProgress(7))
	assert.Equal(t, 0.0, o.SetProgress(-1))

	o.SetProgress(0)
	for i := 0; i < 15; i++ {
		o.StepProgress(1)
	}
	assert.Equal(t, 1.0, o.Progress)
	assert.InDelta(t, 0.9, o.StepProgress(-1), 1e-9)
}
