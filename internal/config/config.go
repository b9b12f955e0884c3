package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FeedSource names one RSS feed the ingester polls.
type FeedSource struct {
	Name string
	URL  string
}

// defaultFeeds are the Nigerian news outlets polled when FEED_SOURCES is unset.
var defaultFeeds = []FeedSource{
	{Name: "punch", URL: "https://punchng.com/feed/"},
	{Name: "vanguard", URL: "https://www.vanguardngr.com/feed/"},
	{Name: "premium-times", URL: "https://www.premiumtimesng.com/feed"},
	{Name: "daily-trust", URL: "https://dailytrust.com/feed/"},
	{Name: "the-guardian", URL: "https://guardian.ng/feed/"},
	{Name: "channels", URL: "https://www.channelstv.com/feed/"},
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers    []string
	KafkaSinkTopic  string
	KafkaEnabled    bool
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	Feeds        []FeedSource
	FeedTimeout  time.Duration
	LookbackDays int
	CacheTTL     time.Duration
	CronSchedule string

	SQLitePath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parseDuration("FEED_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseDuration("CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	lookbackDays, err := parsePositiveInt("LOOKBACK_DAYS", 30)
	if err != nil {
		return nil, err
	}

	feeds, err := parseFeeds(os.Getenv("FEED_SOURCES"))
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "security-incidents"),
		KafkaEnabled:    kafkaEnabled,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Feeds:        feeds,
		FeedTimeout:  feedTimeout,
		LookbackDays: lookbackDays,
		CacheTTL:     cacheTTL,
		CronSchedule: envOrDefault("INGEST_SCHEDULE", "@every 30m"),

		SQLitePath: envOrDefault("SQLITE_PATH", "safejourney.db"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}
	if len(cfg.Feeds) == 0 {
		return nil, errors.New("FEED_SOURCES resolved to an empty feed list")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

// parseFeeds parses a comma-separated list of name=url pairs. An empty
// input selects the default feed list.
func parseFeeds(s string) ([]FeedSource, error) {
	if s == "" {
		return defaultFeeds, nil
	}
	var feeds []FeedSource
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, url, ok := strings.Cut(pair, "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid FEED_SOURCES entry: %q", pair)
		}
		feeds = append(feeds, FeedSource{Name: name, URL: url})
	}
	return feeds, nil
}
