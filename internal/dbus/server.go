package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toasty/internal/model"
)

// MessageHandler receives requests arriving over D-Bus. It is called on
// the D-Bus goroutine; callers marshal to their own loop if needed.
type MessageHandler func(req model.NotificationRequest)

// StatusFunc reports the current daemon status.
type StatusFunc func() Status

// Server implements the io.github.jmylchreest.Toasty interface.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger

	mu         sync.RWMutex
	onMessage  MessageHandler
	status     StatusFunc
	serverInfo ServerInfo
	running    bool
}

// NewServer creates a new Server.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		serverInfo: DefaultServerInfo(),
	}
}

// SetMessageHandler sets the handler called for every ShowMessage.
func (s *Server) SetMessageHandler(handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = handler
}

// SetStatusFunc sets the source for GetStatus replies.
func (s *Server) SetStatusFunc(fn StatusFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = fn
}

// SetServerInfo sets the information returned by GetServerInformation.
func (s *Server) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo = info
}

// Start connects to the session bus and exports the toast service.
func (s *Server) Start() error {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()
	if running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := s.export(conn); err != nil {
		_ = conn.Close()
		return err
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus toast server started", "name", BusName, "path", ObjectPath)
	return nil
}

func (s *Server) export(conn *dbus.Conn) error {
	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: toastMethods(),
				Signals: toastSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// Stop releases the bus name and closes the connection.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	err := s.conn.Close()
	s.conn = nil

	s.logger.Info("D-Bus toast server stopped")
	return err
}

// ShowMessage publishes a showMessage request and returns its id.
// D-Bus method: ShowMessage(ss) -> s
func (s *Server) ShowMessage(text, typ string) (string, *dbus.Error) {
	req, err := model.NewRequest(text, typ)
	if err != nil {
		return "", dbus.NewError(ErrorFailed, []any{err.Error()})
	}
	if err := req.Validate(); err != nil {
		return "", dbus.NewError(ErrorInvalidArgs, []any{err.Error()})
	}

	s.logger.Debug("ShowMessage called", "id", req.ID, "type", typ, "text_len", len(text))

	s.mu.RLock()
	handler := s.onMessage
	s.mu.RUnlock()

	if handler == nil {
		return "", dbus.NewError(ErrorFailed, []any{"no toast bound"})
	}
	handler(req)
	return req.ID, nil
}

// GetStatus returns the last shown request and the number of toasts shown.
// D-Bus method: GetStatus() -> (sssxu)
func (s *Server) GetStatus() (string, string, string, int64, uint32, *dbus.Error) {
	s.mu.RLock()
	fn := s.status
	s.mu.RUnlock()

	var st Status
	if fn != nil {
		st = fn()
	}
	id, text, typ, shownAt, count := statusArgs(st)
	return id, text, typ, shownAt, count, nil
}

// GetServerInformation returns the daemon name and version.
// D-Bus method: GetServerInformation() -> (ss)
func (s *Server) GetServerInformation() (string, string, *dbus.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverInfo.Name, s.serverInfo.Version, nil
}

// EmitMessageShown emits the MessageShown signal for req.
func (s *Server) EmitMessageShown(req model.NotificationRequest) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := conn.Emit(ObjectPath, Interface+"."+SignalMessageShown, req.ID, req.Text, req.Type); err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", SignalMessageShown, err)
	}

	s.logger.Debug("emitted MessageShown signal", "id", req.ID)
	return nil
}

// Running reports whether the service is exported.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func toastMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "ShowMessage",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "type", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "GetStatus",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "out"},
				{Name: "text", Type: "s", Direction: "out"},
				{Name: "type", Type: "s", Direction: "out"},
				{Name: "shown_at", Type: "x", Direction: "out"},
				{Name: "count", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
	}
}

func toastSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: SignalMessageShown,
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "text", Type: "s"},
				{Name: "type", Type: "s"},
			},
		},
	}
}
