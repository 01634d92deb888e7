package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where caltide stores its own data
	DSN string
	// Driver is the database driver (sqlite)
	Driver string
	// Version is the current version of server
	Version string

	// Timezone is the IANA zone used to interpret user-relative dates.
	// Empty means the process-local zone.
	Timezone string
	// WorkingHoursStart and WorkingHoursEnd bound availability search,
	// as hours of the day in UTC.
	WorkingHoursStart int
	WorkingHoursEnd   int

	// CalendarBackend selects the event store: "local" or "google".
	CalendarBackend string
	// GoogleCredentialsFile is the OAuth client secret path for the
	// google backend.
	GoogleCredentialsFile string
	// GoogleTokenFile is the cached OAuth token path for the google
	// backend.
	GoogleTokenFile string

	// AI Configuration
	AIAPIKey  string // CALTIDE_AI_API_KEY
	AIBaseURL string // CALTIDE_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel   string // CALTIDE_AI_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvOrDefault returns the environment variable as int, or the default
// when unset or unparseable.
func getIntEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring non-numeric environment variable", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}

// FromEnv loads configuration from CALTIDE_* environment variables.
func (p *Profile) FromEnv() {
	p.Timezone = os.Getenv("CALTIDE_TIMEZONE")
	p.WorkingHoursStart = getIntEnvOrDefault("CALTIDE_WORKING_HOURS_START", 9)
	p.WorkingHoursEnd = getIntEnvOrDefault("CALTIDE_WORKING_HOURS_END", 17)

	p.CalendarBackend = getEnvOrDefault("CALTIDE_CALENDAR_BACKEND", "local")
	p.GoogleCredentialsFile = getEnvOrDefault("CALTIDE_GOOGLE_CREDENTIALS_FILE", "credentials.json")
	p.GoogleTokenFile = getEnvOrDefault("CALTIDE_GOOGLE_TOKEN_FILE", "token.json")

	p.AIAPIKey = os.Getenv("CALTIDE_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("CALTIDE_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIModel = getEnvOrDefault("CALTIDE_AI_MODEL", "gpt-4o-mini")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}

	if p.WorkingHoursStart == 0 && p.WorkingHoursEnd == 0 {
		p.WorkingHoursStart = 9
		p.WorkingHoursEnd = 17
	}
	if p.WorkingHoursStart < 0 || p.WorkingHoursEnd > 24 || p.WorkingHoursStart >= p.WorkingHoursEnd {
		return errors.Errorf("invalid working hours %d-%d", p.WorkingHoursStart, p.WorkingHoursEnd)
	}

	if p.CalendarBackend != "local" && p.CalendarBackend != "google" {
		return errors.Errorf("unknown calendar backend: %s", p.CalendarBackend)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "caltide")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/caltide"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("caltide_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
