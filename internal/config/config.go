// Package config parses organiser.toml configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load.
const FileName = "organiser.toml"

// DefaultAccentColor is the default TUI accent color (iOS blue).
const DefaultAccentColor = "#007AFF"

// DefaultDataDir holds state and logs, relative to the config directory.
const DefaultDataDir = ".organiser"

// hexColorRe matches a 6-digit hex color string like "#007AFF".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Id schemes.
const (
	IDsUUID  = "uuid"
	IDsClock = "clock"
)

var (
	backends   = []string{BackendFile, BackendSQLite, BackendMemory}
	idSchemes  = []string{IDsUUID, IDsClock}
	logLevels  = []string{"debug", "info", "warn", "error"}
	keyInvalid = regexp.MustCompile(`[/\\]|\.\.`)
)

// Config is the top-level organiser.toml configuration.
type Config struct {
	Storage       StorageConfig       `toml:"storage"`
	Chat          ChatConfig          `toml:"chat"`
	TUI           TUIConfig           `toml:"tui"`
	Log           LogConfig           `toml:"log"`
	Notifications NotificationsConfig `toml:"notifications"`
	IDs           IDsConfig           `toml:"ids"`

	// Dir is where relative paths resolve: the directory of the loaded file,
	// or the home directory when no file was found.
	Dir string `toml:"-"`
	// Path is the loaded file, "" when defaults were used.
	Path string `toml:"-"`
}

// StorageConfig selects where state is persisted.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"` // directory for file, database file for sqlite
	Key     string `toml:"key"`
	Watch   bool   `toml:"watch"`
}

// ChatConfig controls the scripted chat.
type ChatConfig struct {
	ReplyDelayMS int `toml:"reply_delay_ms"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL          string `toml:"url"`
	OnWriteError bool   `toml:"on_write_error"`
	OnReminder   bool   `toml:"on_reminder"`
}

// IDsConfig selects the record id scheme.
type IDsConfig struct {
	Scheme string `toml:"scheme"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(backends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend must be one of %s", strings.Join(backends, ", ")))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, fmt.Errorf("storage.key must not be empty"))
	} else if keyInvalid.MatchString(c.Storage.Key) {
		errs = append(errs, fmt.Errorf("storage.key must not contain path separators or \"..\""))
	}

	if c.Chat.ReplyDelayMS < 0 {
		errs = append(errs, fmt.Errorf("chat.reply_delay_ms must be >= 0"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#007AFF\")"))
	}

	if c.Log.Level != "" && !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of %s", strings.Join(logLevels, ", ")))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	if !slices.Contains(idSchemes, c.IDs.Scheme) {
		errs = append(errs, fmt.Errorf("ids.scheme must be one of %s", strings.Join(idSchemes, ", ")))
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "",
			Key:     "personalOrganiser",
			Watch:   true,
		},
		Chat: ChatConfig{
			ReplyDelayMS: 1000,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
		Log: LogConfig{
			Level: "info",
		},
		Notifications: NotificationsConfig{
			URL:          "",
			OnWriteError: true,
			OnReminder:   true,
		},
		IDs: IDsConfig{
			Scheme: IDsUUID,
		},
	}
}

// ReplyDelay returns the chat reply delay.
func (c *Config) ReplyDelay() time.Duration {
	return time.Duration(c.Chat.ReplyDelayMS) * time.Millisecond
}

// StoragePath returns the absolute backend location: a directory for the
// file backend, a database file for sqlite.
func (c *Config) StoragePath() string {
	p := c.Storage.Path
	if p == "" {
		p = DefaultDataDir
		if c.Storage.Backend == BackendSQLite {
			p = filepath.Join(DefaultDataDir, "organiser.db")
		}
	}
	return c.resolve(p)
}

// LogPath returns the absolute log file path, or "" for stderr.
func (c *Config) LogPath() string {
	if c.Log.File == "" {
		return ""
	}
	return c.resolve(c.Log.File)
}

func (c *Config) resolve(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Load reads organiser.toml from the given path. If path is empty, it walks up
// from the current working directory looking for organiser.toml and falls
// back to defaults rooted at the home directory when none exists. Returns an
// error if the file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		if found == "" {
			cfg := Defaults()
			cfg.Dir = defaultDir()
			return &cfg, nil
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	cfg.Path = abs
	cfg.Dir = filepath.Dir(abs)
	return &cfg, nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for organiser.toml.
// It returns "" when there is none.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func defaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// InitFile writes a default organiser.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# organiser.toml: personal organiser configuration
# Relative paths resolve against the directory holding this file.

[storage]
backend = "file"             # file, sqlite or memory
path = ""                    # "" = .organiser/ (file) or .organiser/organiser.db (sqlite)
key = "personalOrganiser"    # name of the state blob
watch = true                 # reload when another organiser process writes

[chat]
reply_delay_ms = 1000

[tui]
accent_color = "#007AFF"  # hex color for header/accent elements

[log]
level = "info"  # debug, info, warn or error
file = ""       # empty = stderr (discarded while the TUI runs)

[notifications]
url = ""               # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_write_error = true  # notify when state cannot be saved
on_reminder = true     # send ` + "`organiser remind`" + ` output

[ids]
scheme = "uuid"  # uuid or clock (millisecond timestamps)
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
