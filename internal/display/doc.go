// Package display shows the toast in a GTK4/libadwaita layer-shell window.
// It builds the widget tree the toast binding styles, places the popup on
// screen, and dismisses it after the configured timeout or on click.
package display
