package dbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// ErrNotRunning is returned when no daemon owns the bus name.
var ErrNotRunning = errors.New("toastyd is not running")

// Client calls the toast service over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection.
func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, ObjectPath),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ShowMessage asks the daemon to show a toast and returns the request id.
func (c *Client) ShowMessage(ctx context.Context, text, typ string) (string, error) {
	var id string
	call := c.obj.CallWithContext(ctx, Interface+".ShowMessage", 0, text, typ)
	if err := call.Store(&id); err != nil {
		return "", c.wrap("ShowMessage", err)
	}
	return id, nil
}

// Status returns the daemon's last shown request and counter.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var (
		id, text, typ string
		shownAt       int64
		count         uint32
	)
	call := c.obj.CallWithContext(ctx, Interface+".GetStatus", 0)
	if err := call.Store(&id, &text, &typ, &shownAt, &count); err != nil {
		return Status{}, c.wrap("GetStatus", err)
	}
	return statusFromArgs(id, text, typ, shownAt, count), nil
}

// ServerInformation returns the daemon name and version.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, Interface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Version); err != nil {
		return ServerInfo{}, c.wrap("GetServerInformation", err)
	}
	return info, nil
}

func (c *Client) wrap(method string, err error) error {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) && dbusErr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" {
		return ErrNotRunning
	}
	return fmt.Errorf("%s failed: %w", method, err)
}
