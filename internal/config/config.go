package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string

	SnapshotTTL    time.Duration
	FeedMaxWorkers int
	DedupPolicy    string
	MinConfidence  float64
	NewsCacheTTL   time.Duration

	TransferAPIEnabled    bool
	TransferAPIBaseURL    string
	TransferAPIKey        string
	TransferAPITimeout    time.Duration
	TransferAPIMaxRetries int
	TransferAPICacheTTL   time.Duration

	NewsAPIEnabled    bool
	NewsAPIBaseURL    string
	NewsAPIKey        string
	NewsAPIQuery      string
	NewsAPITimeout    time.Duration
	NewsAPIMaxRetries int
	NewsAPICacheTTL   time.Duration

	ArticleFeedEnabled    bool
	ArticleFeedBaseURL    string
	ArticleFeedTimeout    time.Duration
	ArticleFeedMaxRetries int
	ArticleFeedCacheTTL   time.Duration

	DealWireEnabled  bool
	DealWireBaseURL  string
	DealWireToken    string
	DealWireTimeout  time.Duration
	DealWireCacheTTL time.Duration

	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	snapshotTTL, err := getEnvAsDuration("FEED_SNAPSHOT_TTL", 3*time.Minute)
	if err != nil {
		return Config{}, err
	}
	if snapshotTTL <= 0 {
		return Config{}, fmt.Errorf("FEED_SNAPSHOT_TTL must be > 0")
	}
	feedMaxWorkers, err := getEnvAsInt("FEED_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_WORKERS: %w", err)
	}
	if feedMaxWorkers <= 0 {
		return Config{}, fmt.Errorf("FEED_MAX_WORKERS must be > 0")
	}

	dedupPolicy := strings.TrimSpace(getEnv("FEED_DEDUP_POLICY", "player_club"))
	switch dedupPolicy {
	case "player_club", "player_club_date":
	default:
		return Config{}, fmt.Errorf("invalid FEED_DEDUP_POLICY %q: valid values are player_club, player_club_date", dedupPolicy)
	}

	minConfidence, err := getEnvAsFloat("FEED_MIN_CONFIDENCE", 0.6)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MIN_CONFIDENCE: %w", err)
	}
	if minConfidence < 0 || minConfidence > 1 {
		return Config{}, fmt.Errorf("FEED_MIN_CONFIDENCE must be within [0, 1]")
	}

	newsCacheTTL, err := getEnvAsDuration("NEWS_CACHE_TTL", 2*time.Minute)
	if err != nil {
		return Config{}, err
	}

	transferAPIEnabled, err := strconv.ParseBool(getEnv("TRANSFER_API_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_API_ENABLED: %w", err)
	}
	transferAPIBaseURL := strings.TrimSpace(getEnv("TRANSFER_API_BASE_URL", ""))
	if transferAPIEnabled && transferAPIBaseURL == "" {
		return Config{}, fmt.Errorf("TRANSFER_API_BASE_URL is required when TRANSFER_API_ENABLED=true")
	}
	transferAPITimeout, err := getEnvAsDuration("TRANSFER_API_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	transferAPIMaxRetries, err := getEnvAsInt("TRANSFER_API_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_API_MAX_RETRIES: %w", err)
	}
	transferAPICacheTTL, err := getEnvAsDuration("TRANSFER_API_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	newsAPIEnabled, err := strconv.ParseBool(getEnv("NEWS_API_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWS_API_ENABLED: %w", err)
	}
	newsAPIBaseURL := strings.TrimSpace(getEnv("NEWS_API_BASE_URL", ""))
	if newsAPIEnabled && newsAPIBaseURL == "" {
		return Config{}, fmt.Errorf("NEWS_API_BASE_URL is required when NEWS_API_ENABLED=true")
	}
	newsAPIKey := strings.TrimSpace(getEnv("NEWS_API_KEY", ""))
	if newsAPIEnabled && newsAPIKey == "" {
		return Config{}, fmt.Errorf("NEWS_API_KEY is required when NEWS_API_ENABLED=true")
	}
	newsAPITimeout, err := getEnvAsDuration("NEWS_API_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	newsAPIMaxRetries, err := getEnvAsInt("NEWS_API_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWS_API_MAX_RETRIES: %w", err)
	}
	newsAPICacheTTL, err := getEnvAsDuration("NEWS_API_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	articleFeedEnabled, err := strconv.ParseBool(getEnv("ARTICLE_FEED_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARTICLE_FEED_ENABLED: %w", err)
	}
	articleFeedBaseURL := strings.TrimSpace(getEnv("ARTICLE_FEED_BASE_URL", ""))
	if articleFeedEnabled && articleFeedBaseURL == "" {
		return Config{}, fmt.Errorf("ARTICLE_FEED_BASE_URL is required when ARTICLE_FEED_ENABLED=true")
	}
	articleFeedTimeout, err := getEnvAsDuration("ARTICLE_FEED_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	articleFeedMaxRetries, err := getEnvAsInt("ARTICLE_FEED_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ARTICLE_FEED_MAX_RETRIES: %w", err)
	}
	articleFeedCacheTTL, err := getEnvAsDuration("ARTICLE_FEED_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	dealWireEnabled, err := strconv.ParseBool(getEnv("DEALWIRE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DEALWIRE_ENABLED: %w", err)
	}
	dealWireBaseURL := strings.TrimSpace(getEnv("DEALWIRE_BASE_URL", ""))
	if dealWireEnabled && dealWireBaseURL == "" {
		return Config{}, fmt.Errorf("DEALWIRE_BASE_URL is required when DEALWIRE_ENABLED=true")
	}
	dealWireTimeout, err := getEnvAsDuration("DEALWIRE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	dealWireCacheTTL, err := getEnvAsDuration("DEALWIRE_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	feedCircuitEnabled, err := strconv.ParseBool(getEnv("FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailureCount, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	feedCircuitOpenTimeout, err := getEnvAsDuration("FEED_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	feedCircuitHalfOpenMaxReq, err := getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "transfer-feed"))

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		SnapshotTTL:    snapshotTTL,
		FeedMaxWorkers: feedMaxWorkers,
		DedupPolicy:    dedupPolicy,
		MinConfidence:  minConfidence,
		NewsCacheTTL:   newsCacheTTL,

		TransferAPIEnabled:    transferAPIEnabled,
		TransferAPIBaseURL:    transferAPIBaseURL,
		TransferAPIKey:        strings.TrimSpace(getEnv("TRANSFER_API_KEY", "")),
		TransferAPITimeout:    transferAPITimeout,
		TransferAPIMaxRetries: transferAPIMaxRetries,
		TransferAPICacheTTL:   transferAPICacheTTL,

		NewsAPIEnabled:    newsAPIEnabled,
		NewsAPIBaseURL:    newsAPIBaseURL,
		NewsAPIKey:        newsAPIKey,
		NewsAPIQuery:      strings.TrimSpace(getEnv("NEWS_API_QUERY", "premier league transfer")),
		NewsAPITimeout:    newsAPITimeout,
		NewsAPIMaxRetries: newsAPIMaxRetries,
		NewsAPICacheTTL:   newsAPICacheTTL,

		ArticleFeedEnabled:    articleFeedEnabled,
		ArticleFeedBaseURL:    articleFeedBaseURL,
		ArticleFeedTimeout:    articleFeedTimeout,
		ArticleFeedMaxRetries: articleFeedMaxRetries,
		ArticleFeedCacheTTL:   articleFeedCacheTTL,

		DealWireEnabled:  dealWireEnabled,
		DealWireBaseURL:  dealWireBaseURL,
		DealWireToken:    strings.TrimSpace(getEnv("DEALWIRE_TOKEN", "")),
		DealWireTimeout:  dealWireTimeout,
		DealWireCacheTTL: dealWireCacheTTL,

		FeedCircuitEnabled:        feedCircuitEnabled,
		FeedCircuitFailureCount:   feedCircuitFailureCount,
		FeedCircuitOpenTimeout:    feedCircuitOpenTimeout,
		FeedCircuitHalfOpenMaxReq: feedCircuitHalfOpenMaxReq,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(v))
	switch normalized {
	case EnvDev, EnvStage, EnvProd:
		return normalized, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		candidate := strings.TrimSpace(part)
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

// parseUptraceDSNFromOTLPHeaders extracts uptrace-dsn=... from the
// standard OTEL_EXPORTER_OTLP_HEADERS value.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
