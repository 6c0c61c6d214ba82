// Package audio plays a sound when a toast is shown. Sounds are chosen by
// request type from the daemon config and decoded with beep (WAV, OGG and
// MP3).
package audio
