package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"
)

const (
	STORE_FIRESTORE = "firestore"
	STORE_POSTGRES  = "postgres"
	STORE_MEMORY    = "memory"
)

const (
	DEFAULT_STORE_TIMEOUT     = 25 * time.Second
	DEFAULT_SERVICE_CACHE_TTL = 5 * time.Minute
	DEFAULT_ENRICH_WORKERS    = 8
)

const CREDENTIALS_FILENAME = "admin-sdk-credentials.json"

// Config is built once at startup and never mutated afterwards.
type Config struct {
	APIEnv string
	Port   string

	StoreDriver       string
	FirebaseProjectID string
	SecretsDir        string
	SecretsBucket     string

	DatabaseHost     string
	DatabasePort     string
	DatabaseSSLMode  string
	DatabaseTimezone string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string

	RedisHost       string
	ServiceCacheTTL time.Duration

	StoreTimeout  time.Duration
	EnrichWorkers int

	AppHost         string
	AllowedOrigins  []string
	MaintenanceMode bool

	NotificationsEnabled bool
	LogDir               string
}

func Load() Config {
	return Config{
		APIEnv:               os.Getenv("API_ENV"),
		Port:                 getenv("PORT", "8080"),
		StoreDriver:          strings.ToLower(getenv("STORE_DRIVER", STORE_FIRESTORE)),
		FirebaseProjectID:    os.Getenv("FIREBASE_PROJECT_ID"),
		SecretsDir:           getenv("SECRETS_DIR", "/secrets"),
		SecretsBucket:        os.Getenv("S3_SECRETS_BUCKET"),
		DatabaseHost:         getenv("DATABASE_HOST", "localhost"),
		DatabasePort:         getenv("DATABASE_PORT", "5432"),
		DatabaseSSLMode:      getenv("DATABASE_SSLMODE", "disable"),
		DatabaseTimezone:     getenv("DATABASE_TIMEZONE", "UTC"),
		DatabaseUser:         os.Getenv("DATABASE_USER"),
		DatabasePassword:     os.Getenv("DATABASE_PASSWORD"),
		DatabaseName:         os.Getenv("DATABASE_NAME"),
		RedisHost:            os.Getenv("REDIS_HOST"),
		ServiceCacheTTL:      getduration("SERVICE_CACHE_TTL", DEFAULT_SERVICE_CACHE_TTL),
		StoreTimeout:         getduration("STORE_TIMEOUT", DEFAULT_STORE_TIMEOUT),
		EnrichWorkers:        getint("ENRICH_WORKERS", DEFAULT_ENRICH_WORKERS),
		AppHost:              os.Getenv("APP_HOST"),
		AllowedOrigins:       getlist("CORS_ORIGINS"),
		MaintenanceMode:      getbool("MAINTENANCE_MODE", false),
		NotificationsEnabled: getbool("NOTIFICATIONS_ENABLED", false),
		LogDir:               getenv("LOG_DIR", "logs"),
	}
}

func (c Config) IsLocal() bool {
	return c.APIEnv == "local"
}

func (c Config) IsProd() bool {
	return c.APIEnv == "production"
}

func (c Config) CredentialsFile() string {
	return path.Join(c.SecretsDir, CREDENTIALS_FILENAME)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DatabaseHost, c.DatabaseUser, c.DatabasePassword, c.DatabaseName, c.DatabasePort, c.DatabaseSSLMode, c.DatabaseTimezone)
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getduration accepts Go durations ("30s") or a plain number of seconds.
func getduration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func getlist(k string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(k), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

const DATE_FORMAT = "2006-01-02"
const TIME_OF_DAY_FORMAT = "15:04"
