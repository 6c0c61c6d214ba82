package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDaemonConfig(t *testing.T) {
	cfg := DefaultDaemonConfig()

	assert.Equal(t, "toast", cfg.Elements.ContainerID)
	assert.Equal(t, "toast-body", cfg.Elements.BodyID)
	assert.Equal(t, "top-right", cfg.Display.Position)
	assert.Equal(t, 350, cfg.Display.Width)
	assert.Equal(t, 1.0, cfg.Display.Opacity)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Default.Duration())
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.True(t, cfg.Input.DBus)
	assert.False(t, cfg.Input.Stdin)
	require.NoError(t, cfg.Validate())
}

func TestLoadDaemonConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadDaemonConfig("/nonexistent/path/toastyd.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultDaemonConfig(), cfg)
}

func TestLoadDaemonConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastyd.toml")

	content := `
[elements]
container_id = "note"
body_id = "note-text"

[display]
position = "bottom-center"
offset_x = 0
offset_y = 40
width = 420
opacity = 0.85

[timeouts]
default = "3s"

[timeouts.severity]
danger = "0"
info = "1500"

[audio]
enabled = true
volume = 50
default = "/usr/share/sounds/pop.ogg"

[audio.sounds]
danger = "~/sounds/alarm.wav"

[theme]
name = "minimal"
color_scheme = "dark"

[input]
dbus = false
stdin = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadDaemonConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "note", cfg.Elements.ContainerID)
	assert.Equal(t, "note-text", cfg.Elements.BodyID)
	assert.Equal(t, "bottom-center", cfg.Display.Position)
	assert.Equal(t, 40, cfg.Display.OffsetY)
	assert.Equal(t, 420, cfg.Display.Width)
	assert.InDelta(t, 0.85, cfg.Display.Opacity, 0.0001)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Default.Duration())
	assert.Equal(t, time.Duration(0), cfg.TimeoutFor("danger"))
	assert.Equal(t, 1500*time.Millisecond, cfg.TimeoutFor("info"))
	assert.Equal(t, 3*time.Second, cfg.TimeoutFor("success"))
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 50, cfg.Audio.Volume)
	assert.Equal(t, "minimal", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.ColorScheme)
	assert.False(t, cfg.Input.DBus)
	assert.True(t, cfg.Input.Stdin)
}

func TestLoadDaemonConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastyd.toml")

	require.NoError(t, os.WriteFile(path, []byte("[display]\nwidth = 500\n"), 0644))

	cfg, err := LoadDaemonConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Display.Width)
	// Unchanged fields keep defaults
	assert.Equal(t, "top-right", cfg.Display.Position)
	assert.Equal(t, "toast", cfg.Elements.ContainerID)
	assert.Equal(t, 10*time.Second, cfg.TimeoutFor("danger"))
}

func TestLoadDaemonConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastyd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadDaemonConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadDaemonConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastyd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nposition = \"middle\"\n"), 0644))

	_, err := LoadDaemonConfig(path)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoadDaemonConfig_BadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastyd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timeouts]\ndefault = \"soon\"\n"), 0644))

	_, err := LoadDaemonConfig(path)
	assert.Error(t, err)
}

func TestDaemonConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "toastyd.toml")

	cfg := DefaultDaemonConfig()
	cfg.Display.Position = "bottom-left"
	cfg.Timeouts.Severity["warning"] = Duration(7 * time.Second)
	cfg.Audio.Sounds["info"] = "/tmp/info.wav"

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file renamed away")

	loaded, err := LoadDaemonConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bottom-left", loaded.Display.Position)
	assert.Equal(t, 7*time.Second, loaded.TimeoutFor("warning"))
	assert.Equal(t, "/tmp/info.wav", loaded.Audio.Sounds["info"])
}

func TestDaemonConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DaemonConfig)
		errMsg string
	}{
		{"empty container", func(c *DaemonConfig) { c.Elements.ContainerID = "" }, "container_id"},
		{"empty body", func(c *DaemonConfig) { c.Elements.BodyID = "" }, "body_id"},
		{"same ids", func(c *DaemonConfig) { c.Elements.BodyID = c.Elements.ContainerID }, "must differ"},
		{"bad position", func(c *DaemonConfig) { c.Display.Position = "center" }, "invalid position"},
		{"narrow", func(c *DaemonConfig) { c.Display.Width = 50 }, "width"},
		{"opacity", func(c *DaemonConfig) { c.Display.Opacity = 1.5 }, "opacity"},
		{"monitor", func(c *DaemonConfig) { c.Display.Monitor = -1 }, "monitor"},
		{"negative default", func(c *DaemonConfig) { c.Timeouts.Default = Duration(-time.Second) }, "timeouts.default"},
		{"negative severity", func(c *DaemonConfig) { c.Timeouts.Severity["info"] = Duration(-1) }, `"info"`},
		{"volume", func(c *DaemonConfig) { c.Audio.Volume = 101 }, "volume"},
		{"color scheme", func(c *DaemonConfig) { c.Theme.ColorScheme = "sepia" }, "color_scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDaemonConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestDaemonConfig_TimeoutFor(t *testing.T) {
	cfg := DefaultDaemonConfig()
	cfg.Timeouts.Severity["custom"] = Duration(time.Minute)

	assert.Equal(t, 10*time.Second, cfg.TimeoutFor("danger"))
	assert.Equal(t, 10*time.Second, cfg.TimeoutFor("error"), "alias resolves to danger")
	assert.Equal(t, time.Minute, cfg.TimeoutFor("custom"))
	assert.Equal(t, 5*time.Second, cfg.TimeoutFor(""))
	assert.Equal(t, 5*time.Second, cfg.TimeoutFor("sparkly"))
}

func TestDaemonConfig_SoundFor(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultDaemonConfig()
	cfg.Audio.Default = "/sounds/default.ogg"
	cfg.Audio.Sounds["danger"] = "~/alarm.wav"

	assert.Equal(t, "", cfg.SoundFor("danger"), "disabled audio plays nothing")

	cfg.Audio.Enabled = true
	assert.Equal(t, filepath.Join(home, "alarm.wav"), cfg.SoundFor("danger"))
	assert.Equal(t, filepath.Join(home, "alarm.wav"), cfg.SoundFor("critical"))
	assert.Equal(t, "/sounds/default.ogg", cfg.SoundFor("info"))
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"5s", 5 * time.Second, true},
		{"1h30m", 90 * time.Minute, true},
		{"2500", 2500 * time.Millisecond, true},
		{"0", 0, true},
		{"later", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	b, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(b))
	assert.Equal(t, 1500, Duration(1500*time.Millisecond).Milliseconds())
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/toasty", ConfigDir())
	assert.Equal(t, "/custom/config/toasty/toastyd.toml", DefaultPath())
	assert.Equal(t, "/custom/config/toasty/themes", ThemesDir())
}

func TestConfigDirDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, DefaultPath(), filepath.Join(".config", "toasty", "toastyd.toml"))
}
