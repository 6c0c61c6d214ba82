package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// decodeFunc decodes an opened sound file.
type decodeFunc func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps a lowercase file extension to its decoder.
var decoders = map[string]decodeFunc{
	".wav": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) },
	".ogg": vorbis.Decode,
	".mp3": mp3.Decode,
}

// speakerLatency is the speaker buffer length.
const speakerLatency = 100 * time.Millisecond

// Speaker plays toast sounds through the default audio device. Only one
// toast is visible at a time, so starting a sound cuts off the previous one.
type Speaker struct {
	logger *slog.Logger

	mu         sync.Mutex
	volume     float64 // 0.0 to 1.0
	sampleRate beep.SampleRate
	ready      bool
	buffers    map[string]*beep.Buffer
}

// NewSpeaker creates a Speaker. The audio device is opened on first load.
func NewSpeaker(logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		buffers:    make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the playback volume, clamped to [0, 1].
func (s *Speaker) SetVolume(volume float64) {
	volume = math.Max(0, math.Min(1, volume))

	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
	s.logger.Debug("volume set", "volume", volume)
}

// Volume returns the current volume.
func (s *Speaker) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Play replaces whatever is playing with the sound at path.
// WAV, OGG and MP3 files are supported.
func (s *Speaker) Play(path string) error {
	if path == "" {
		return nil
	}

	buffer, err := s.buffer(expandPath(path))
	if err != nil {
		return err
	}

	s.mu.Lock()
	streamer := s.streamerFor(buffer)
	s.mu.Unlock()

	speaker.Clear()
	speaker.Play(streamer)
	return nil
}

// Preload decodes path into the cache without playing it.
func (s *Speaker) Preload(path string) error {
	if path == "" {
		return nil
	}
	if _, err := s.buffer(expandPath(path)); err != nil {
		return err
	}
	s.logger.Debug("preloaded sound", "path", path)
	return nil
}

// buffer returns the cached decode of path, decoding it on a miss.
func (s *Speaker) buffer(path string) (*beep.Buffer, error) {
	s.mu.Lock()
	cached, ok := s.buffers[path]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	buffer, err := s.decode(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.buffers[path] = buffer
	s.mu.Unlock()
	return buffer, nil
}

func (s *Speaker) decode(path string) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	if err := s.open(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// open initializes the speaker at the rate of the first decoded sound.
func (s *Speaker) open(rate beep.SampleRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if err := speaker.Init(rate, rate.N(speakerLatency)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	s.sampleRate = rate
	s.ready = true
	s.logger.Debug("speaker initialized", "sample_rate", rate)
	return nil
}

// streamerFor wraps buffer for the speaker rate and volume. s.mu must be held.
func (s *Speaker) streamerFor(buffer *beep.Buffer) beep.Streamer {
	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())

	if rate := buffer.Format().SampleRate; rate != s.sampleRate {
		streamer = beep.Resample(4, rate, s.sampleRate, streamer)
	}
	if s.volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToDecibels(s.volume),
			Silent:   s.volume == 0,
		}
	}
	return streamer
}

// InvalidateCache drops the decode of path so the next play re-reads it.
func (s *Speaker) InvalidateCache(path string) {
	s.mu.Lock()
	delete(s.buffers, expandPath(path))
	s.mu.Unlock()
}

// ClearCache drops every decoded sound.
func (s *Speaker) ClearCache() {
	s.mu.Lock()
	s.buffers = make(map[string]*beep.Buffer)
	s.mu.Unlock()
	s.logger.Debug("sound cache cleared")
}

// Close stops playback and releases the audio device.
func (s *Speaker) Close() {
	s.mu.Lock()
	if s.ready {
		speaker.Close()
		s.ready = false
	}
	s.buffers = make(map[string]*beep.Buffer)
	s.mu.Unlock()
	s.logger.Debug("speaker closed")
}

// volumeToDecibels converts a linear volume (0-1) to decibels.
func volumeToDecibels(volume float64) float64 {
	if volume <= 0 {
		return -100
	}
	return 20 * math.Log10(volume)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
