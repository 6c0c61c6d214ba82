package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
)

// NotificationLevel indicates the severity of an internal toast.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for recoverable problems.
	NotificationLevelWarning
	// NotificationLevelError is for failures.
	NotificationLevelError
)

// Severity returns the toast type used for the level.
func (l NotificationLevel) Severity() string {
	switch l {
	case NotificationLevelWarning:
		return model.SeverityWarning
	case NotificationLevelError:
		return model.SeverityDanger
	default:
		return model.SeverityInfo
	}
}

// InternalNotifier shows toasts about toastyd itself through the same
// showMessage path as external requests. Repeats of the same key are
// rate limited to prevent floods.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	publish func(req model.NotificationRequest)

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetPublisher sets the function that dispatches showMessage requests.
func (n *InternalNotifier) SetPublisher(publish func(req model.NotificationRequest)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.publish = publish
}

// SetEnabled enables or disables internal toasts.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between toasts with the same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows text unless a toast with the same key was shown within
// the minimum interval. It returns false when nothing was published.
func (n *InternalNotifier) Notify(key, text string, level NotificationLevel) bool {
	n.mu.Lock()

	if !n.enabled {
		n.mu.Unlock()
		return false
	}
	if n.publish == nil {
		n.mu.Unlock()
		n.logger.Debug("internal toast skipped: no publisher", "key", key)
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal toast rate-limited", "key", key)
		return false
	}
	n.lastNotifyTime[key] = now
	publish := n.publish
	n.mu.Unlock()

	req, err := model.NewRequest(text, level.Severity())
	if err != nil {
		n.logger.Warn("failed to build internal toast", "key", key, "error", err)
		return false
	}

	n.logger.Debug("sending internal toast", "key", key, "type", req.Type)
	publish(req)
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded", NotificationLevelInfo)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error: "+err.Error(), NotificationLevelError)
}

// NotifyThemeReloaded reports a theme reload.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme '"+themeName+"' reloaded", NotificationLevelInfo)
}

// NotifyThemeError reports a theme that could not be loaded.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Theme error: "+err.Error(), NotificationLevelWarning)
}

// NotifyStartup reports that the daemon is running.
func (n *InternalNotifier) NotifyStartup(version string) {
	n.Notify("startup", "toastyd v"+version+" is running", NotificationLevelInfo)
}

// NotifyAudioError reports a failed sound playback.
func (n *InternalNotifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "Audio error: "+err.Error(), NotificationLevelWarning)
}
