package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toasty/internal/model"
)

// SignalHandler receives requests announced by MessageShown.
type SignalHandler func(req model.NotificationRequest)

// SignalWatcher listens for MessageShown without owning the bus name.
type SignalWatcher struct {
	conn   *dbus.Conn
	logger *slog.Logger

	onShown SignalHandler
}

// NewSignalWatcher creates a new signal watcher.
func NewSignalWatcher(logger *slog.Logger) *SignalWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignalWatcher{logger: logger}
}

// SetHandler sets the callback for received signals.
func (w *SignalWatcher) SetHandler(handler SignalHandler) {
	w.onShown = handler
}

// Run subscribes to MessageShown and delivers signals until ctx is done.
func (w *SignalWatcher) Run(ctx context.Context) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	w.conn = conn
	defer func() { _ = conn.Close() }()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember(SignalMessageShown),
	); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}

	ch := make(chan *dbus.Signal, 16)
	conn.Signal(ch)
	defer conn.RemoveSignal(ch)

	w.logger.Debug("watching MessageShown signals")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			w.handle(sig)
		}
	}
}

func (w *SignalWatcher) handle(sig *dbus.Signal) {
	if sig == nil || sig.Name != Interface+"."+SignalMessageShown {
		return
	}

	req, err := requestFromSignal(sig.Body)
	if err != nil {
		w.logger.Warn("ignoring signal", "error", err)
		return
	}

	w.logger.Debug("received MessageShown", "id", req.ID, "type", req.Type)
	if w.onShown != nil {
		w.onShown(req)
	}
}
