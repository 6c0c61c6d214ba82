package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/event"
	"github.com/jmylchreest/toasty/internal/model"
)

func TestDisplayStatusString(t *testing.T) {
	assert.Equal(t, "idle", DisplayStatusIdle.String())
	assert.Equal(t, "active", DisplayStatusActive.String())
	assert.Equal(t, "dismissed", DisplayStatusDismissed.String())
	assert.Equal(t, "unknown", DisplayStatus(42).String())
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	_, ok := tr.Last()
	assert.False(t, ok)
	assert.Equal(t, DisplayStatusIdle, tr.DisplayStatus())
	assert.Zero(t, tr.Status().Count)

	tr.MarkDismissed()
	assert.Equal(t, DisplayStatusIdle, tr.DisplayStatus())

	tr.Record(model.NotificationRequest{ID: "a", Text: "Saved", Type: "success"})
	tr.Record(model.NotificationRequest{ID: "b", Text: "Oops", Type: "danger"})

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "Oops", last.Text)
	assert.Equal(t, uint32(2), tr.Count())
	assert.Equal(t, DisplayStatusActive, tr.DisplayStatus())

	st := tr.Status()
	assert.Equal(t, "b", st.ID)
	assert.Equal(t, "danger", st.Type)
	assert.Equal(t, fixed, st.ShownAt)
	assert.Equal(t, uint32(2), st.Count)

	tr.MarkDismissed()
	assert.Equal(t, DisplayStatusDismissed, tr.DisplayStatus())
}

func TestTracker_SubscribedToBus(t *testing.T) {
	bus := event.NewBus[model.NotificationRequest](event.BusOptions{Name: model.EventShowMessage})
	tr := NewTracker()
	bus.Subscribe(tr.Record)

	bus.Publish(model.NotificationRequest{Text: "Saved", Type: "success"})
	bus.Publish(model.NotificationRequest{Text: "Hi"})

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "Hi", last.Text)
	assert.Empty(t, last.Type)
	assert.Equal(t, uint32(2), tr.Count())
}

func TestNotificationLevelSeverity(t *testing.T) {
	assert.Equal(t, model.SeverityInfo, NotificationLevelInfo.Severity())
	assert.Equal(t, model.SeverityWarning, NotificationLevelWarning.Severity())
	assert.Equal(t, model.SeverityDanger, NotificationLevelError.Severity())
}

type captured struct {
	mu   sync.Mutex
	reqs []model.NotificationRequest
}

func (c *captured) publish(req model.NotificationRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
}

func (c *captured) all() []model.NotificationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.NotificationRequest(nil), c.reqs...)
}

func TestInternalNotifier_Publishes(t *testing.T) {
	n := NewInternalNotifier(nil)
	c := &captured{}
	n.SetPublisher(c.publish)

	n.NotifyConfigError(errors.New("bad width"))
	n.NotifyThemeError(errors.New("missing"))
	n.NotifyConfigReloaded()

	reqs := c.all()
	require.Len(t, reqs, 3)
	assert.Equal(t, "Configuration error: bad width", reqs[0].Text)
	assert.Equal(t, "danger", reqs[0].Type)
	assert.Equal(t, "warning", reqs[1].Type)
	assert.Equal(t, "info", reqs[2].Type)
	assert.NotEmpty(t, reqs[0].ID)
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	n := NewInternalNotifier(nil)
	c := &captured{}
	n.SetPublisher(c.publish)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	assert.True(t, n.Notify("k", "first", NotificationLevelInfo))
	assert.False(t, n.Notify("k", "again", NotificationLevelInfo))
	assert.True(t, n.Notify("other", "different key", NotificationLevelInfo))

	now = now.Add(6 * time.Second)
	assert.True(t, n.Notify("k", "later", NotificationLevelInfo))

	assert.Len(t, c.all(), 3)
}

func TestInternalNotifier_DisabledOrNoPublisher(t *testing.T) {
	n := NewInternalNotifier(nil)
	assert.False(t, n.Notify("k", "no publisher", NotificationLevelInfo))

	c := &captured{}
	n.SetPublisher(c.publish)
	n.SetEnabled(false)
	assert.False(t, n.Notify("k", "disabled", NotificationLevelInfo))
	assert.Empty(t, c.all())

	n.SetEnabled(true)
	n.SetMinInterval(0)
	assert.True(t, n.Notify("k", "one", NotificationLevelInfo))
	assert.True(t, n.Notify("k", "two", NotificationLevelInfo))
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestConfigWatcher_ReloadValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastyd.toml")
	writeConfig(t, path, "[display]\nposition = \"top-left\"\n")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)

	var got *config.DaemonConfig
	w.SetReloadCallback(func(cfg *config.DaemonConfig) { got = cfg })
	w.SetErrorCallback(func(err error) { t.Errorf("unexpected error: %v", err) })

	w.reload()
	require.NotNil(t, got)
	assert.Equal(t, "top-left", got.Display.Position)
	assert.Same(t, got, w.GetCurrentConfig())
}

func TestConfigWatcher_ReloadInvalidKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastyd.toml")
	writeConfig(t, path, "[display]\nwidth = 5\n")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)

	initial := config.DefaultDaemonConfig()
	require.NoError(t, w.Start(initial))
	defer w.Stop()

	var gotErr error
	w.SetErrorCallback(func(err error) { gotErr = err })
	w.SetReloadCallback(func(*config.DaemonConfig) { t.Error("reload should not fire") })

	w.reload()
	assert.Error(t, gotErr)
	assert.Same(t, initial, w.GetCurrentConfig())
}

func TestConfigWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastyd.toml")

	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	w.file.SetDebounce(20 * time.Millisecond)

	reloaded := make(chan *config.DaemonConfig, 4)
	w.SetReloadCallback(func(cfg *config.DaemonConfig) { reloaded <- cfg })

	require.NoError(t, w.Start(config.DefaultDaemonConfig()))
	defer w.Stop()

	writeConfig(t, path, "[display]\nposition = \"bottom-center\"\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "bottom-center", cfg.Display.Position)
	case <-time.After(2 * time.Second):
		t.Fatal("config reload not detected")
	}
}

func TestConfigWatcher_DefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	w, err := NewConfigWatcher("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPath(), w.Path())
	w.Stop()
}
