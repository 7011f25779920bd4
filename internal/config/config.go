package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
}

type APIConfig struct {
	BaseURL string   `toml:"base_url"` // dashboard back end, e.g. http://localhost:8000/api
	Token   string   `toml:"token"`    // optional credential for the back end itself
	Timeout Duration `toml:"timeout"`  // 0 = transport default
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`
}

// Duration lets timeouts be written as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

const DefaultBaseURL = "http://localhost:8000/api"

func Default() Config {
	return Config{
		API: APIConfig{BaseURL: DefaultBaseURL},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(os.TempDir(), "jobs-tui", "jobs-tui.log"),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/jobs-tui/config.toml, falling back to
// the OS user config dir.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "jobs-tui", "config.toml")
}

// Load builds the configuration from defaults, the TOML file at path (a
// missing file is fine), a .env file in the working directory and the
// JOBS_TUI_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// A missing .env is normal; variables may be set directly.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JOBS_TUI_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("JOBS_TUI_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("JOBS_TUI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JOBS_TUI_TIMEOUT must be a duration like 15s, got %q", v)
		}
		c.API.Timeout = Duration{d}
	}
	if v := os.Getenv("JOBS_TUI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JOBS_TUI_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout.Duration < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

// Host returns the back-end host for the header line.
func (c Config) Host() string {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" {
		return c.API.BaseURL
	}
	return u.Host
}
