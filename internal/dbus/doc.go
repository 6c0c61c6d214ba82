// Package dbus exposes the showMessage event on the session bus.
// The daemon exports io.github.jmylchreest.Toasty with ShowMessage and
// GetStatus methods and a MessageShown signal; Client and SignalWatcher
// are the CLI side of the same interface.
package dbus
