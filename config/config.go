package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sethvargo/go-password/password"
	"github.com/spf13/afero"
)

// Settings holds everything the server needs at runtime. The file is plain
// JSON so operators can edit it by hand.
type Settings struct {
	ListenAddr    string `json:"listenAddr"`
	DatabasePath  string `json:"databasePath"`
	SessionSecret string `json:"sessionSecret"`
	TokenTTLHours int    `json:"tokenTtlHours"`
	LogFile       string `json:"logFile,omitempty"`
}

// Manager loads and saves settings with exclusive access. The filesystem is
// abstracted so tests run against an in-memory fs.
type Manager struct {
	fs      afero.Fs
	path    string
	mu      sync.RWMutex
	current *Settings
}

// NewManager creates a settings manager over the OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs creates a settings manager over the supplied filesystem.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

// Load reads the settings file, filling defaults for anything unset. A
// missing file yields defaults and a freshly minted session secret, which is
// persisted so tokens survive restarts.
func (m *Manager) Load() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings := defaultSettings()

	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	}

	applyDefaults(settings)

	if settings.SessionSecret == "" {
		secret, err := password.Generate(48, 12, 0, false, true)
		if err != nil {
			return nil, fmt.Errorf("mint session secret: %w", err)
		}
		settings.SessionSecret = secret
		if err := m.save(settings); err != nil {
			return nil, err
		}
	}

	m.current = settings
	return settings, nil
}

// Current returns the most recently loaded or saved settings, or nil when
// Load has not run yet.
func (m *Manager) Current() *Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Save persists the settings file.
func (m *Manager) Save(settings *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.save(settings); err != nil {
		return err
	}
	m.current = settings
	return nil
}

func (m *Manager) save(settings *Settings) error {
	dir := filepath.Dir(m.path)
	if dir != "" && dir != "." {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.path, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func defaultSettings() *Settings {
	return &Settings{
		ListenAddr:    ":8080",
		DatabasePath:  "data/cinelist.db",
		TokenTTLHours: 24,
	}
}

func applyDefaults(s *Settings) {
	if s.ListenAddr == "" {
		s.ListenAddr = ":8080"
	}
	if s.DatabasePath == "" {
		s.DatabasePath = "data/cinelist.db"
	}
	if s.TokenTTLHours <= 0 {
		s.TokenTTLHours = 24
	}
}
