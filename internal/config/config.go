package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
)

const DefaultSeasonURL = "https://www.fantasynutmeg.com/api/history/season/2022-23"

// Config stores runtime configuration for the ingest commands.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	LogLevel                logging.Level
	LogFormat               string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBConnectTimeout        time.Duration
	SeasonURL               string
	FetchTimeout            time.Duration
	FetchMaxBodyBytes       int64
	StrictRecords           bool
	ArchiveRaw              bool
	UptraceEnabled          bool
	UptraceDSN              string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logging.FormatJSON)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", logFormat, logging.FormatJSON, logging.FormatConsole)
	}

	dbURL, err := resolveDBURL()
	if err != nil {
		return Config{}, err
	}
	disablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbConnectTimeout, err := time.ParseDuration(getEnv("DB_CONNECT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CONNECT_TIMEOUT: %w", err)
	}
	if dbConnectTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_CONNECT_TIMEOUT must be > 0")
	}

	seasonURL := strings.TrimSpace(getEnv("FPL_SEASON_URL", DefaultSeasonURL))
	fetchTimeout, err := time.ParseDuration(getEnv("FPL_FETCH_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_FETCH_TIMEOUT: %w", err)
	}
	if fetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FPL_FETCH_TIMEOUT must be > 0")
	}
	fetchMaxBodyBytes, err := getEnvAsInt("FPL_FETCH_MAX_BODY_BYTES", 32<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_FETCH_MAX_BODY_BYTES: %w", err)
	}
	if fetchMaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("FPL_FETCH_MAX_BODY_BYTES must be > 0")
	}

	strictRecords, err := strconv.ParseBool(getEnv("INGEST_STRICT_RECORDS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_STRICT_RECORDS: %w", err)
	}
	archiveRaw, err := strconv.ParseBool(getEnv("INGEST_ARCHIVE_RAW", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_ARCHIVE_RAW: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	return Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "fpl-season-ingest"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:               logFormat,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: disablePreparedBinary,
		DBConnectTimeout:        dbConnectTimeout,
		SeasonURL:               seasonURL,
		FetchTimeout:            fetchTimeout,
		FetchMaxBodyBytes:       int64(fetchMaxBodyBytes),
		StrictRecords:           strictRecords,
		ArchiveRaw:              archiveRaw,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
	}, nil
}

// resolveDBURL picks the connection string: DB_URL wins, then DIRECT_URL when
// CONNECT_SUPABASE is set, otherwise one assembled from the DB_* parts.
func resolveDBURL() (string, error) {
	if direct := strings.TrimSpace(os.Getenv("DB_URL")); direct != "" {
		return direct, nil
	}

	supabase, err := strconv.ParseBool(getEnv("CONNECT_SUPABASE", "false"))
	if err != nil {
		return "", fmt.Errorf("parse CONNECT_SUPABASE: %w", err)
	}
	if supabase {
		direct := strings.TrimSpace(os.Getenv("DIRECT_URL"))
		if direct == "" {
			return "", fmt.Errorf("DIRECT_URL is required when CONNECT_SUPABASE=true")
		}
		return direct, nil
	}

	port, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return "", fmt.Errorf("parse DB_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("DB_PORT must be between 1 and 65535")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "postgres")),
		Host:   net.JoinHostPort(getEnv("DB_HOST", "localhost"), strconv.Itoa(port)),
		Path:   "/" + getEnv("DB_NAME", "fpl_data"),
	}
	if sslMode := strings.TrimSpace(os.Getenv("DB_SSLMODE")); sslMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()
	}
	return u.String(), nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
