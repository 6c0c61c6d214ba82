package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
)

func TestStatusArgsRoundTrip(t *testing.T) {
	shown := time.UnixMilli(1_700_000_000_123)
	s := Status{ID: "01H", Text: "Saved", Type: "success", ShownAt: shown, Count: 3}

	id, text, typ, at, count := statusArgs(s)
	assert.Equal(t, int64(1_700_000_000_123), at)

	got := statusFromArgs(id, text, typ, at, count)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Text, got.Text)
	assert.Equal(t, s.Type, got.Type)
	assert.Equal(t, s.Count, got.Count)
	assert.True(t, s.ShownAt.Equal(got.ShownAt))
}

func TestStatusArgs_Empty(t *testing.T) {
	_, _, _, at, count := statusArgs(Status{})
	assert.Zero(t, at)
	assert.Zero(t, count)

	s := statusFromArgs("", "", "", 0, 0)
	assert.True(t, s.ShownAt.IsZero())
	assert.False(t, s.HasMessage())
}

func TestStatus_Request(t *testing.T) {
	s := Status{ID: "x", Text: "Oops", Type: "danger", Count: 1}
	req := s.Request()
	assert.Equal(t, "Oops", req.Text)
	assert.Equal(t, "danger", req.Type)
	assert.True(t, s.HasMessage())
}

func TestRequestFromSignal(t *testing.T) {
	tests := []struct {
		name    string
		body    []any
		want    model.NotificationRequest
		wantErr bool
	}{
		{
			name: "valid",
			body: []any{"01H", "Saved", "success"},
			want: model.NotificationRequest{ID: "01H", Text: "Saved", Type: "success"},
		},
		{
			name: "empty type",
			body: []any{"01H", "Hi", ""},
			want: model.NotificationRequest{ID: "01H", Text: "Hi"},
		},
		{name: "too short", body: []any{"01H", "Hi"}, wantErr: true},
		{name: "bad id", body: []any{uint32(1), "Hi", ""}, wantErr: true},
		{name: "bad text", body: []any{"01H", 5, ""}, wantErr: true},
		{name: "bad type", body: []any{"01H", "Hi", true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := requestFromSignal(tt.body)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedSignal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServer_ShowMessage(t *testing.T) {
	s := NewServer(nil)

	var got []model.NotificationRequest
	s.SetMessageHandler(func(req model.NotificationRequest) {
		got = append(got, req)
	})

	id, dbusErr := s.ShowMessage("Saved", "success")
	require.Nil(t, dbusErr)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Saved", got[0].Text)
	assert.Equal(t, "success", got[0].Type)
	assert.False(t, got[0].ReceivedAt.IsZero())
}

func TestServer_ShowMessageEmptyText(t *testing.T) {
	s := NewServer(nil)
	called := false
	s.SetMessageHandler(func(model.NotificationRequest) { called = true })

	_, dbusErr := s.ShowMessage("", "info")
	require.NotNil(t, dbusErr)
	assert.Equal(t, ErrorInvalidArgs, dbusErr.Name)
	assert.False(t, called)
}

func TestServer_ShowMessageWithoutHandler(t *testing.T) {
	s := NewServer(nil)
	_, dbusErr := s.ShowMessage("Hi", "")
	require.NotNil(t, dbusErr)
	assert.Equal(t, ErrorFailed, dbusErr.Name)
}

func TestServer_GetStatus(t *testing.T) {
	s := NewServer(nil)

	id, text, typ, at, count, dbusErr := s.GetStatus()
	require.Nil(t, dbusErr)
	assert.Empty(t, id)
	assert.Empty(t, text)
	assert.Empty(t, typ)
	assert.Zero(t, at)
	assert.Zero(t, count)

	shown := time.UnixMilli(1_700_000_000_000)
	s.SetStatusFunc(func() Status {
		return Status{ID: "a", Text: "Oops", Type: "danger", ShownAt: shown, Count: 2}
	})
	id, text, typ, at, count, dbusErr = s.GetStatus()
	require.Nil(t, dbusErr)
	assert.Equal(t, "a", id)
	assert.Equal(t, "Oops", text)
	assert.Equal(t, "danger", typ)
	assert.Equal(t, shown.UnixMilli(), at)
	assert.Equal(t, uint32(2), count)
}

func TestServer_GetServerInformation(t *testing.T) {
	s := NewServer(nil)
	s.SetServerInfo(ServerInfo{Name: "toastyd", Version: "1.2.3"})

	name, version, dbusErr := s.GetServerInformation()
	require.Nil(t, dbusErr)
	assert.Equal(t, "toastyd", name)
	assert.Equal(t, "1.2.3", version)
}

func TestServer_EmitWithoutConnection(t *testing.T) {
	s := NewServer(nil)
	assert.Error(t, s.EmitMessageShown(model.NotificationRequest{ID: "x", Text: "Hi"}))
	assert.False(t, s.Running())
	assert.NoError(t, s.Stop())
}

func TestSignalWatcher_Handle(t *testing.T) {
	w := NewSignalWatcher(nil)
	var got []model.NotificationRequest
	w.SetHandler(func(req model.NotificationRequest) { got = append(got, req) })

	w.handle(&dbus.Signal{
		Name: Interface + "." + SignalMessageShown,
		Body: []any{"01H", "Saved", "success"},
	})
	w.handle(&dbus.Signal{Name: "org.example.Other", Body: []any{"a", "b", "c"}})
	w.handle(&dbus.Signal{Name: Interface + "." + SignalMessageShown, Body: []any{"bad"}})
	w.handle(nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Saved", got[0].Text)
}

func TestIntrospection(t *testing.T) {
	methods := toastMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"ShowMessage", "GetStatus", "GetServerInformation"}, names)

	signals := toastSignals()
	require.Len(t, signals, 1)
	assert.Equal(t, SignalMessageShown, signals[0].Name)
	assert.Len(t, signals[0].Args, 3)
}
