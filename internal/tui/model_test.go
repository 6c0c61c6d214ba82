package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := New(config.DefaultDaemonConfig(), nil)
	require.NoError(t, err)
	return m
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func TestDocument_ElementByID(t *testing.T) {
	doc := NewDocument("toast", "toast-body")

	el, ok := doc.ElementByID("toast")
	require.True(t, ok)
	assert.Same(t, doc.Container, el)

	el, ok = doc.ElementByID("toast-body")
	require.True(t, ok)
	assert.Same(t, doc.Body, el)

	_, ok = doc.ElementByID("missing")
	assert.False(t, ok)
}

func TestElement_Classes(t *testing.T) {
	el := NewElement("toast", "toast", "bg-info")
	el.AddClass("bg-info", "text-white", "")
	assert.Equal(t, []string{"toast", "bg-info", "text-white"}, el.Classes())

	el.RemoveClass("bg-info", "not-there")
	assert.Equal(t, []string{"toast", "text-white"}, el.Classes())
	assert.True(t, el.HasClass("toast"))
	assert.False(t, el.HasClass("bg-info"))
}

func TestWidget_HideIf(t *testing.T) {
	w := &Widget{}
	w.Show()
	first := w.Generation()
	w.Show()

	assert.False(t, w.HideIf(first))
	assert.True(t, w.Visible())
	assert.True(t, w.HideIf(w.Generation()))
	assert.False(t, w.Visible())
}

func TestBindingDrivesTerminalToast(t *testing.T) {
	m := newTestModel(t)

	m.bus.Publish(model.NotificationRequest{Text: "Saved", Type: "success"})
	assert.True(t, m.widget.Visible())
	assert.Equal(t, "Saved", m.doc.Body.Text())
	assert.True(t, m.doc.Container.HasClass("bg-success"))
	assert.True(t, m.doc.Container.HasClass("text-white"))

	m.bus.Publish(model.NotificationRequest{Text: "Hi"})
	assert.False(t, m.doc.Container.HasClass("bg-success"))
	assert.False(t, m.doc.Container.HasClass("text-white"))
	assert.True(t, m.doc.Container.HasClass("toast"))
}

func TestDocument_MissingElementFailsBind(t *testing.T) {
	doc := NewDocument("a", "b")
	_, err := toast.Bind(doc, toast.ToolkitFunc(func(toast.Element) toast.Widget { return &Widget{} }), nil,
		toast.WithContainerID("c"))
	assert.ErrorIs(t, err, toast.ErrElementNotFound)
}

func TestSend_PlainTextUsesSelectedType(t *testing.T) {
	m := newTestModel(t)

	m = typeText(m, "Oops")
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, "danger", typeChoices[m.typeIdx])

	m, cmd := press(m, tea.KeyEnter)
	assert.NotNil(t, cmd)
	assert.True(t, m.widget.Visible())
	assert.Equal(t, "Oops", m.doc.Body.Text())
	assert.True(t, m.doc.Container.HasClass("bg-danger"))
	assert.False(t, m.statusErr)
}

func TestSend_TriggerJSON(t *testing.T) {
	m := newTestModel(t)

	m = typeText(m, `{"showMessage":{"text":"<b>hi</b>","type":"info"}}`)
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, "<b>hi</b>", m.doc.Body.Text())
	assert.True(t, m.doc.Container.HasClass("bg-info"))
}

func TestSend_InvalidJSON(t *testing.T) {
	m := newTestModel(t)

	m = typeText(m, `{"showMessage":`)
	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.True(t, m.statusErr)
	assert.False(t, m.widget.Visible())
}

func TestSend_ZeroTimeoutSchedulesNothing(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	cfg.Timeouts.Default = config.Duration(0)
	m, err := New(cfg, nil)
	require.NoError(t, err)

	m = typeText(m, "stay")
	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.True(t, m.widget.Visible())
}

func TestDismissMsg_IgnoresStaleGeneration(t *testing.T) {
	m := newTestModel(t)

	m = typeText(m, "one")
	m, _ = press(m, tea.KeyEnter)
	stale := m.widget.Generation()
	m, _ = press(m, tea.KeyEnter)

	next, _ := m.Update(dismissMsg{gen: stale})
	m = next.(Model)
	assert.True(t, m.widget.Visible())

	next, _ = m.Update(dismissMsg{gen: m.widget.Generation()})
	m = next.(Model)
	assert.False(t, m.widget.Visible())
}

func TestDismissKey(t *testing.T) {
	m := newTestModel(t)
	m = typeText(m, "bye")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEsc)
	assert.False(t, m.widget.Visible())
}

func TestTypeCycleWraps(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, len(typeChoices)-1, m.typeIdx)
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, 0, m.typeIdx)
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "(no toast)")

	m = typeText(m, "Saved")
	m, _ = press(m, tea.KeyEnter)
	view := m.View()
	assert.Contains(t, view, "Saved")
	assert.NotContains(t, view, "(no toast)")
}

func TestToastStyle(t *testing.T) {
	el := NewElement("toast", "toast", "bg-danger", "text-white")
	style := toastStyle(el, 30)
	assert.Equal(t, severityColors["bg-danger"], style.GetBackground())
	assert.Equal(t, 30, style.GetWidth())

	plain := toastStyle(NewElement("toast", "toast", "bg-custom"), 0)
	assert.Equal(t, 0, plain.GetWidth())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ab\ncd", sanitize("a\x07b\ncd"))
	assert.Equal(t, "[31mred", sanitize("\x1b[31mred"))
	assert.Equal(t, "tab\there", sanitize("tab\there"))
}

func TestRequestFromInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("plain")
	m.typeIdx = 3
	req, err := m.requestFromInput()
	require.NoError(t, err)
	assert.Equal(t, model.NotificationRequest{Text: "plain", Type: typeChoices[3]}, req)
}

func TestTimeoutTick(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	cfg.Timeouts.Default = config.Duration(10 * time.Millisecond)
	m, err := New(cfg, nil)
	require.NoError(t, err)

	m = typeText(m, "tick")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	dm, ok := msg.(dismissMsg)
	require.True(t, ok)
	assert.Equal(t, m.widget.Generation(), dm.gen)
}
