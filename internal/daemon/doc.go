// Package daemon holds the toastyd pieces that sit around the toast
// binding: config hot reload, status tracking and internal toasts about
// the daemon itself.
package daemon
