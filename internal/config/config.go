package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultStoreName = "Personal Expense Tracker"

type Config struct {
	// HTTP Server
	Port string

	// Backing store
	StoreName   string
	DataBackend string

	// Google Sheets credentials (one of JSON or File; the standard
	// GOOGLE_APPLICATION_CREDENTIALS fallback also works)
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// SQLite
	SQLiteDBPath string

	// AMQP (optional mutation-event stream)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// fileSettings is the optional TOML settings file, the same shape as the
// secrets file the tracker historically used.
type fileSettings struct {
	StoreName string `toml:"store_name,omitempty"`
	Backend   string `toml:"backend,omitempty"`
	Port      string `toml:"port,omitempty"`

	Google struct {
		ServiceAccountJSON string `toml:"service_account_json,omitempty"`
		ServiceAccountFile string `toml:"service_account_file,omitempty"`
	} `toml:"google"`

	SQLite struct {
		Path string `toml:"path,omitempty"`
	} `toml:"sqlite"`

	AMQP struct {
		URL      string `toml:"url,omitempty"`
		Exchange string `toml:"exchange,omitempty"`
		Queue    string `toml:"queue,omitempty"`
	} `toml:"amqp"`
}

// SettingsPath returns the settings file location, overridable via
// TRACKER_SETTINGS_FILE.
func SettingsPath() string {
	if p := os.Getenv("TRACKER_SETTINGS_FILE"); p != "" {
		return p
	}
	return "settings.toml"
}

// Load builds the configuration from the optional TOML settings file with
// environment variables taking precedence. A missing settings file is not
// an error.
func Load() *Config {
	var fs fileSettings
	if data, err := os.ReadFile(SettingsPath()); err == nil {
		// A malformed file is ignored rather than fatal; Validate will
		// catch whatever required values end up missing.
		_ = toml.Unmarshal(data, &fs)
	}

	cfg := &Config{
		Port:        getEnv("PORT", pick(fs.Port, "8081")),
		StoreName:   getEnv("STORE_NAME", pick(fs.StoreName, DefaultStoreName)),
		DataBackend: getEnv("DATA_BACKEND", pick(fs.Backend, "memory")),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", fs.Google.ServiceAccountJSON),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", fs.Google.ServiceAccountFile),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", pick(fs.SQLite.Path, "./data/tracker.db")),

		AMQPURL:      getEnv("AMQP_URL", fs.AMQP.URL),
		AMQPExchange: getEnv("AMQP_EXCHANGE", pick(fs.AMQP.Exchange, "tracker")),
		AMQPQueue:    getEnv("AMQP_QUEUE", pick(fs.AMQP.Queue, "mutations")),
	}

	return cfg
}

// Validate checks the configuration and returns one error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.StoreName) == "" {
		errs = append(errs, "store name cannot be empty")
	}

	switch c.DataBackend {
	case "memory", "sheets", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory sheets sqlite]", c.DataBackend))
	}

	if c.DataBackend == "sheets" {
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		hasADC := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != ""
		if !hasJSON && !hasFile && !hasADC {
			errs = append(errs, "sheets backend needs service account credentials (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func pick(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
