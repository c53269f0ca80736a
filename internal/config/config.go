package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Bank sources, in the order they are consulted when layered.
const (
	BankSourceBuiltin = "builtin"
	BankSourceDir     = "dir"
	BankSourceDB      = "db"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BankSource string // builtin|dir|db
	BankDir    string // for dir

	BlobBasePath string // exported reports

	TargetChars int
	SessionTTL  time.Duration
	ReportTitle string // document title of exported reports

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	ServeUI       bool // HTML form at /
	EnableBankAPI bool // PUT /api/banks/{grade}

	LogLevel string
}

// Load reads optional .env files and then the environment. Variables
// already set win over the files. Missing files are skipped; a file that
// exists but does not parse is an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BankSource:         envOr("BANK_SOURCE", BankSourceBuiltin),
		BankDir:            envOr("BANK_DIR", "./banks"),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		TargetChars:        envInt("TARGET_CHARS", 499),
		SessionTTL:         envDuration("SESSION_TTL", 12*time.Hour),
		ReportTitle:        envOr("REPORT_TITLE", "English Report Comments"),
		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:          envOr("ADMIN_USER", "admin"),
		AdminPassHash:      envOr("ADMIN_PASS_HASH", ""),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://comments.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:8080"),
		ServeUI:            envBool("SERVE_UI", true),
		EnableBankAPI:      envBool("ENABLE_BANK_API", true),
		LogLevel:           envOr("LOG_LEVEL", "info"),
	}
}

// CORSOrigins picks the origin list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return v
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
