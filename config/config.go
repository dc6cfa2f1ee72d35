// Package config provides loading and parsing of levels.yaml host configuration.
// The file selects where level libraries live, how they are isolated, and how the
// host logs. Environment variables override file values.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/infinifold/levels/levelerr"
)

// Isolation modes.
const (
	// IsolationInProcess opens levels as Go plugins inside the host process.
	IsolationInProcess = "inprocess"

	// IsolationSubprocess runs each level in a levelhost child process.
	IsolationSubprocess = "subprocess"

	// IsolationStatic only serves levels linked into the host binary.
	IsolationStatic = "static"
)

// FileNames are the names Load looks for in a directory, in order.
var FileNames = []string{"levels.yaml", "levels.yml"}

// Config represents a levels.yaml file.
type Config struct {
	// LevelsDir is the directory level libraries are resolved under.
	LevelsDir string `yaml:"levels_dir,omitempty"`

	// Isolation is one of IsolationInProcess, IsolationSubprocess or IsolationStatic.
	Isolation string `yaml:"isolation,omitempty"`

	// Subprocess configures the levelhost child used by subprocess isolation.
	Subprocess *SubprocessConfig `yaml:"subprocess,omitempty"`

	// Log configures the host logger.
	Log *LogConfig `yaml:"log,omitempty"`
}

// SubprocessConfig configures subprocess isolation.
type SubprocessConfig struct {
	// Binary is the levelhost executable, looked up in PATH when it has no
	// separator.
	// Default: levelhost
	Binary string `yaml:"binary,omitempty"`

	// HandshakeTimeout bounds the wait for the child to start serving.
	// Format: Go duration string (e.g., "10s")
	// Default: 10s
	HandshakeTimeout string `yaml:"handshake_timeout,omitempty"`

	// ShutdownTimeout bounds how long closing a level waits for its child to exit.
	// Default: 5s
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `yaml:"level,omitempty"`

	// Format is json or text.
	// Default: json
	Format string `yaml:"format,omitempty"`
}

// envOverrides lists the environment variables that override file values.
type envOverrides struct {
	LevelsDir        string `env:"LEVELS_DIR"`
	Isolation        string `env:"LEVELS_ISOLATION"`
	HostBinary       string `env:"LEVELS_HOST_BINARY"`
	HandshakeTimeout string `env:"LEVELS_HANDSHAKE_TIMEOUT"`
	LogLevel         string `env:"LEVELS_LOG_LEVEL"`
	LogFormat        string `env:"LEVELS_LOG_FORMAT"`
}

// Default returns an empty configuration; every accessor yields its default.
func Default() *Config {
	return &Config{}
}

// GetLevelsDir returns the levels directory or "levels".
func (c *Config) GetLevelsDir() string {
	if c == nil || c.LevelsDir == "" {
		return "levels"
	}
	return c.LevelsDir
}

// GetIsolation returns the isolation mode or IsolationInProcess.
func (c *Config) GetIsolation() string {
	if c == nil || c.Isolation == "" {
		return IsolationInProcess
	}
	return strings.ToLower(c.Isolation)
}

// GetBinary returns the levelhost binary or "levelhost".
func (s *SubprocessConfig) GetBinary() string {
	if s == nil || s.Binary == "" {
		return "levelhost"
	}
	return s.Binary
}

// GetHandshakeTimeout parses the handshake timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *SubprocessConfig) GetHandshakeTimeout() time.Duration {
	return parseDuration(s.handshakeTimeout(), 10*time.Second)
}

// GetShutdownTimeout parses the shutdown timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *SubprocessConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(s.shutdownTimeout(), 5*time.Second)
}

func (s *SubprocessConfig) handshakeTimeout() string {
	if s == nil {
		return ""
	}
	return s.HandshakeTimeout
}

func (s *SubprocessConfig) shutdownTimeout() string {
	if s == nil {
		return ""
	}
	return s.ShutdownTimeout
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetLevel returns the slog level or slog.LevelInfo.
func (l *LogConfig) GetLevel() slog.Level {
	if l == nil || l.Level == "" {
		return slog.LevelInfo
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// GetFormat returns "json" or "text".
func (l *LogConfig) GetFormat() string {
	if l == nil || l.Format == "" {
		return "json"
	}
	return strings.ToLower(l.Format)
}

// NewLogger builds a logger writing to w in the configured format and level.
func (l *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.GetLevel()}
	if l.GetFormat() == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ApplyEnv overrides file values with the LEVELS_* environment variables that are
// set.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return levelerr.NewConfigurationError("config.ApplyEnv", fmt.Errorf("parse env: %w", err))
	}

	if o.LevelsDir != "" {
		c.LevelsDir = o.LevelsDir
	}
	if o.Isolation != "" {
		c.Isolation = o.Isolation
	}
	if o.HostBinary != "" || o.HandshakeTimeout != "" {
		if c.Subprocess == nil {
			c.Subprocess = &SubprocessConfig{}
		}
		if o.HostBinary != "" {
			c.Subprocess.Binary = o.HostBinary
		}
		if o.HandshakeTimeout != "" {
			c.Subprocess.HandshakeTimeout = o.HandshakeTimeout
		}
	}
	if o.LogLevel != "" || o.LogFormat != "" {
		if c.Log == nil {
			c.Log = &LogConfig{}
		}
		if o.LogLevel != "" {
			c.Log.Level = o.LogLevel
		}
		if o.LogFormat != "" {
			c.Log.Format = o.LogFormat
		}
	}
	return nil
}

// Validate checks every set value.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("config cannot be nil")
	}

	switch c.GetIsolation() {
	case IsolationInProcess, IsolationSubprocess, IsolationStatic:
	default:
		return invalid("unknown isolation mode %q", c.Isolation)
	}

	if s := c.Subprocess; s != nil {
		for name, v := range map[string]string{
			"subprocess.handshake_timeout": s.HandshakeTimeout,
			"subprocess.shutdown_timeout":  s.ShutdownTimeout,
		} {
			if v == "" {
				continue
			}
			if d, err := time.ParseDuration(v); err != nil || d <= 0 {
				return invalid("%s must be a positive duration, got %q", name, v)
			}
		}
	}

	if l := c.Log; l != nil {
		if l.Level != "" {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
				return invalid("unknown log level %q", l.Level)
			}
		}
		switch l.GetFormat() {
		case "json", "text":
		default:
			return invalid("unknown log format %q", l.Format)
		}
	}

	return nil
}

func invalid(format string, args ...any) error {
	return levelerr.NewConfigurationError("config.Validate",
		fmt.Errorf("%w: %s", levelerr.ErrInvalidConfig, fmt.Sprintf(format, args...)))
}

// Load reads and parses a levels.yaml file from the given path.
// If the path is a directory, it looks for levels.yaml or levels.yml in that directory.
// Relative levels_dir values are resolved against the file's directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range FileNames {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no levels.yaml or levels.yml found in %s", path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.LevelsDir != "" && !filepath.IsAbs(cfg.LevelsDir) {
		cfg.LevelsDir = filepath.Join(filepath.Dir(configPath), cfg.LevelsDir)
	}

	return &cfg, nil
}

// LoadFromDir searches for levels.yaml starting from the given directory
// and walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		cfg, err := Load(absDir)
		if err == nil {
			return cfg, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no levels.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}
