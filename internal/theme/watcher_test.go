package theme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "live.css", `.toast { color: red; }`)

	th, err := NewTheme("live", path)
	require.NoError(t, err)

	got := make(chan string, 4)
	w := NewWatcher(th, nil)
	w.SetChangeCallback(func(css string) { got <- css })
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())

	writeFile(t, dir, "live.css", `.toast { color: green; }`)

	select {
	case css := <-got:
		assert.Contains(t, css, "green")
	case <-time.After(3 * time.Second):
		t.Fatal("theme change not observed")
	}
}

func TestWatcher_EmbeddedIsNoop(t *testing.T) {
	th, err := Resolve("", "default")
	require.NoError(t, err)

	w := NewWatcher(th, nil)
	require.NoError(t, w.Start())
	assert.False(t, w.IsRunning())
	w.Stop()
}
