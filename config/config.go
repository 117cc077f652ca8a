package config

import (
	"os"
	"strconv"
	"strings"

	"loungebot/types"
)

// Config holds process-level settings resolved from the environment.
// Entry points call godotenv.Load before Load so a local .env works.
type Config struct {
	Port         string
	DatabaseURL  string
	CohereAPIKey string
	CohereModel  string

	// Optional integrations; empty values disable the feature.
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string
	KafkaTopic    string
	S3Bucket      string
	S3Region      string
	S3Prefix      string

	RelevancyBatchLimit int
}

// Load resolves configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Port:                GetEnvOrDefault("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		CohereAPIKey:        os.Getenv("COHERE_API_KEY"),
		CohereModel:         GetEnvOrDefault("COHERE_MODEL", "command-r-plus-08-2024"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASS"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          GetEnvOrDefault("KAFKA_TOPIC", "loungebot.events"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
		S3Region:            os.Getenv("S3_REGION"),
		S3Prefix:            normalizePrefix(os.Getenv("S3_PREFIX")),
		RelevancyBatchLimit: GetEnvIntOrDefault("RELEVANCY_BATCH_LIMIT", 50),
	}
}

// GetEnvOrDefault returns the environment value or a fallback.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetEnvIntOrDefault returns the environment value parsed as int or a fallback.
func GetEnvIntOrDefault(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}

// DefaultFeedSources is the built-in source set used when no explicit
// configuration is provided. Priority 1 outranks priority 2 on dedup
// collisions.
var DefaultFeedSources = []types.FeedSource{
	{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: types.CategoryNews, Priority: 1},
	{Name: "VentureBeat", URL: "https://venturebeat.com/feed/", Category: types.CategoryNews, Priority: 2},
	{Name: "Crunchbase News", URL: "https://news.crunchbase.com/feed/", Category: types.CategoryFunding, Priority: 1},
	{Name: "PR Newswire", URL: "https://www.prnewswire.com/rss/news-releases-list.rss", Category: types.CategoryWire, Priority: 3},
	{Name: "Business Wire", URL: "https://feed.businesswire.com/rss/home/?rss=G1QFDERJXkJeEFpRXUUe", Category: types.CategoryWire, Priority: 3},
}
