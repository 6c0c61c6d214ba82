// Package tui provides the BubbleTea terminal toast and preview playground.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toasty/internal/adapter/input"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/event"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// typeChoices are the request types cycled with tab. "" sends no type.
var typeChoices = append([]string{""}, model.Severities...)

// dismissMsg asks the model to hide the toast shown in generation gen.
type dismissMsg struct {
	gen uint64
}

// Model is the preview TUI model.
type Model struct {
	cfg    *config.DaemonConfig
	logger *slog.Logger

	bus     *event.Bus[model.NotificationRequest]
	binding *toast.Binding
	doc     *Document
	widget  *Widget

	input    textinput.Model
	help     help.Model
	keys     KeyMap
	typeIdx  int
	showHelp bool

	width  int
	height int

	statusMsg string
	statusErr bool
}

// New creates a preview model with its own bus and binding.
func New(cfg *config.DaemonConfig, logger *slog.Logger) (Model, error) {
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	bus := event.NewBus[model.NotificationRequest](event.BusOptions{
		Name:   model.EventShowMessage,
		Logger: logger,
	})
	doc := NewDocument(cfg.Elements.ContainerID, cfg.Elements.BodyID)
	widget := &Widget{}

	binding, err := toast.Bind(doc, toast.ToolkitFunc(func(toast.Element) toast.Widget {
		return widget
	}), bus,
		toast.WithContainerID(cfg.Elements.ContainerID),
		toast.WithBodyID(cfg.Elements.BodyID),
		toast.WithLogger(logger),
	)
	if err != nil {
		return Model{}, fmt.Errorf("failed to bind terminal toast: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = `Message text, or {"text":"Saved","type":"success"}`
	ti.CharLimit = 500
	ti.Focus()

	return Model{
		cfg:     cfg,
		logger:  logger,
		bus:     bus,
		binding: binding,
		doc:     doc,
		widget:  widget,
		input:   ti,
		help:    help.New(),
		keys:    DefaultKeyMap(),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case dismissMsg:
		if m.widget.HideIf(msg.gen) {
			m.logger.Debug("preview toast dismissed", "generation", msg.gen)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.binding.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.NextType):
		m.typeIdx = (m.typeIdx + 1) % len(typeChoices)
		return m, nil

	case key.Matches(msg, m.keys.PrevType):
		m.typeIdx = (m.typeIdx + len(typeChoices) - 1) % len(typeChoices)
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.widget.Hide()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		m.statusMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send publishes the input as a showMessage request and schedules the
// dismiss tick for the resulting toast.
func (m Model) send() (tea.Model, tea.Cmd) {
	req, err := m.requestFromInput()
	if err != nil {
		m.statusMsg = err.Error()
		m.statusErr = true
		return m, nil
	}

	m.bus.Publish(req.Stamp())
	m.statusMsg = "sent " + describe(req)
	m.statusErr = false

	timeout := m.cfg.TimeoutFor(req.Type)
	if timeout <= 0 {
		return m, nil
	}
	gen := m.widget.Generation()
	return m, tea.Tick(timeout, func(time.Time) tea.Msg {
		return dismissMsg{gen: gen}
	})
}

// requestFromInput parses trigger JSON, or uses the raw input as text
// with the selected type.
func (m Model) requestFromInput() (model.NotificationRequest, error) {
	value := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(value), "{") {
		return input.ParseLine(value)
	}
	return model.NotificationRequest{Text: value, Type: typeChoices[m.typeIdx]}, nil
}

func describe(req model.NotificationRequest) string {
	if req.Type == "" {
		return "(no type)"
	}
	return req.Type
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	b.WriteString(titleStyle.Render("toasty preview"))
	b.WriteString("\n\n")

	if m.widget.Visible() {
		b.WriteString(renderToast(m.doc, m.toastWidth()))
	} else {
		b.WriteString(labelStyle.Render("(no toast)"))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("type: "))
	b.WriteString(m.typeLabel())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) typeLabel() string {
	typ := typeChoices[m.typeIdx]
	if typ == "" {
		return "none"
	}
	if color, ok := severityColors[model.BackgroundClass(typ)]; ok {
		return lipgloss.NewStyle().Foreground(color).Render(typ)
	}
	return typ
}

func (m Model) toastWidth() int {
	w := m.cfg.Display.Width / 8
	if m.width > 0 && w > m.width-2 {
		w = m.width - 2
	}
	return max(w, 20)
}

// RunOptions configures the preview.
type RunOptions struct {
	Config *config.DaemonConfig
	Logger *slog.Logger
}

// Run starts the preview TUI.
func Run(opts RunOptions) error {
	m, err := New(opts.Config, opts.Logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
