package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tradeagents/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Snapshot is one loaded overrides generation.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Settings Settings
}

// ChangeListener fires after the overrides file reloads.
type ChangeListener func(Snapshot)

// Registry layers an optional operator-edited overrides file on top of
// the defaults and hot-reloads it while the process runs.
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry loads the overrides file and starts watching it. An
// empty path yields a registry pinned to the defaults.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{path: strings.TrimSpace(path)}
	if r.path == "" {
		r.snapshot = Snapshot{Version: 1, LoadedAt: time.Now(), Settings: Defaults()}
		return r, nil
	}

	v := viper.New()
	v.SetConfigFile(r.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings overrides failed: %w", err)
	}
	r.v = v
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("settings overrides reload failed: %v", err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

// Current returns a copy of the active settings.
func (r *Registry) Current() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Settings
}

// Snapshot returns the active generation with its metadata.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Apply replaces the active settings in memory, bumping the
// generation and notifying listeners. The overrides file is left
// untouched.
func (r *Registry) Apply(s Settings) {
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Settings: s,
	}
	r.mu.Unlock()
	r.notifyListeners()
}

// OnChange registers a listener for future reloads and applies.
func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) reload() error {
	overrides, err := readOverridesFile(r.path)
	if err != nil {
		return err
	}
	merged, err := Merge(Defaults(), overrides)
	if err != nil {
		return fmt.Errorf("settings overrides %s: %w", filepath.Base(r.path), err)
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Settings: merged,
	}
	r.mu.Unlock()
	logger.Infof("Settings overrides loaded from %s (%d keys)", filepath.Base(r.path), len(overrides))
	return nil
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	snap := r.snapshot
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		go func(cb ChangeListener) {
			defer safeRecover("settings listener")
			cb(snap)
		}(fn)
	}
}

func safeRecover(tag string) {
	if rec := recover(); rec != nil {
		logger.Errorf("%s panic: %v", tag, rec)
	}
}

// readOverridesFile decodes the YAML overrides into a generic map;
// unknown keys are rejected later when Merge applies them.
func readOverridesFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings overrides failed: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var overrides map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&overrides); err != nil {
		return nil, fmt.Errorf("parse settings overrides failed: %w", err)
	}
	return overrides, nil
}

// WriteTemplate writes a full overrides file seeded with the defaults
// so operators can edit from a known-good starting point. Existing
// files are never clobbered.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings template: %s already exists", path)
	}
	raw, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("settings template: %w", err)
	}
	header := "# Dashboard settings overrides. Remove any key to fall back to its default.\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings template: %w", err)
	}
	return os.WriteFile(path, append([]byte(header), raw...), 0o644)
}
