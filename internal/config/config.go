// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServiceConfig holds core service identity and listener settings.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// WhatsAppConfig holds credentials and endpoints for the WhatsApp
// Business (Graph) API.
type WhatsAppConfig struct {
	VerifyToken     string
	Token           string
	PhoneNumberID   string
	GraphBaseURL    string
	LookupTimeout   time.Duration
	DownloadTimeout time.Duration
	SendTimeout     time.Duration
}

// STTConfig holds speech-to-text provider settings.
type STTConfig struct {
	Provider     string // mock, whisper, google
	LanguageCode string
	SampleRateHz int

	// Whisper (OpenAI-compatible audio transcription endpoint)
	WhisperBaseURL string
	WhisperAPIKey  string
	WhisperModel   string
	WhisperTimeout time.Duration
}

// ExtractorConfig holds settings for the field-extraction service.
// URL is used by the ingress service as a client; the remaining fields
// configure the extractor binary itself.
type ExtractorConfig struct {
	URL      string
	Timeout  time.Duration
	HTTPPort string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL     string
	Migrate bool
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicRecorded  string
	TopicConfirmed string
	Principal      string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsAddr string
}

// Configuration is the root configuration for both binaries.
type Configuration struct {
	Service       ServiceConfig
	WhatsApp      WhatsAppConfig
	STT           STTConfig
	Extractor     ExtractorConfig
	Database      DatabaseConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment, falling back to defaults
// for anything unset or unparsable. A .env file in the working directory is
// loaded first if present.
func Load() *Configuration {
	_ = godotenv.Load()

	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-wa-interaction-ingress")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			HTTPPort:  envOrDefault("HTTP_PORT", "4000"),
		},
		WhatsApp: WhatsAppConfig{
			VerifyToken:     os.Getenv("VERIFY_TOKEN"),
			Token:           os.Getenv("WA_TOKEN"),
			PhoneNumberID:   os.Getenv("PHONE_NUMBER_ID"),
			GraphBaseURL:    envOrDefault("GRAPH_BASE_URL", "https://graph.facebook.com/v19.0"),
			LookupTimeout:   envOrDefaultDuration("WA_LOOKUP_TIMEOUT", 10*time.Second),
			DownloadTimeout: envOrDefaultDuration("WA_DOWNLOAD_TIMEOUT", 30*time.Second),
			SendTimeout:     envOrDefaultDuration("WA_SEND_TIMEOUT", 10*time.Second),
		},
		STT: STTConfig{
			Provider:       envOrDefault("STT_PROVIDER", "whisper"),
			LanguageCode:   envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:   envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000),
			WhisperBaseURL: envOrDefault("WHISPER_BASE_URL", "http://whisper:8080/v1"),
			WhisperAPIKey:  envOrDefault("WHISPER_API_KEY", "unused"),
			WhisperModel:   envOrDefault("WHISPER_MODEL", "whisper-1"),
			WhisperTimeout: envOrDefaultDuration("WHISPER_TIMEOUT", 60*time.Second),
		},
		Extractor: ExtractorConfig{
			URL:        envOrDefault("EXTRACTOR_URL", "http://extractor:8000/parse"),
			Timeout:    envOrDefaultDuration("EXTRACTOR_TIMEOUT", 15*time.Second),
			HTTPPort:   envOrDefault("EXTRACTOR_PORT", "8000"),
			LLMBaseURL: os.Getenv("LLM_BASE_URL"),
			LLMAPIKey:  envOrDefault("LLM_API_KEY", "unused"),
			LLMModel:   envOrDefault("LLM_MODEL", "llama-3-8b-instruct"),
			LLMTimeout: envOrDefaultDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:     envOrDefault("DB_URL", "postgres://user:pass@db:5432/wa"),
			Migrate: envOrDefaultBool("DB_MIGRATE", true),
		},
		Kafka: KafkaConfig{
			Enabled:        envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:        envOrDefaultList("KAFKA_BROKERS", nil),
			TopicRecorded:  envOrDefault("KAFKA_TOPIC_RECORDED", "interaction.recorded"),
			TopicConfirmed: envOrDefault("KAFKA_TOPIC_CONFIRMED", "interaction.confirmed"),
			Principal:      envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
