package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "LOG_LEVEL", "METRICS_ADDR",
		"GRAPH_BASE_URL", "WA_LOOKUP_TIMEOUT", "WA_DOWNLOAD_TIMEOUT", "WA_SEND_TIMEOUT",
		"STT_PROVIDER", "STT_LANGUAGE_CODE", "STT_SAMPLE_RATE_HZ",
		"EXTRACTOR_URL", "EXTRACTOR_TIMEOUT",
		"DB_URL", "DB_MIGRATE",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_RECORDED", "KAFKA_TOPIC_CONFIRMED", "KAFKA_PRINCIPAL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	if cfg.Service.Principal != "svc-wa-interaction-ingress" {
		t.Errorf("expected default principal 'svc-wa-interaction-ingress', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "4000" {
		t.Errorf("expected default port '4000', got %s", cfg.Service.HTTPPort)
	}
	if cfg.WhatsApp.GraphBaseURL != "https://graph.facebook.com/v19.0" {
		t.Errorf("expected default graph base URL, got %s", cfg.WhatsApp.GraphBaseURL)
	}
	if cfg.WhatsApp.LookupTimeout != 10*time.Second {
		t.Errorf("expected default lookup timeout 10s, got %v", cfg.WhatsApp.LookupTimeout)
	}
	if cfg.WhatsApp.DownloadTimeout != 30*time.Second {
		t.Errorf("expected default download timeout 30s, got %v", cfg.WhatsApp.DownloadTimeout)
	}
	if cfg.STT.Provider != "whisper" {
		t.Errorf("expected default STT provider 'whisper', got %s", cfg.STT.Provider)
	}
	if cfg.STT.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.STT.LanguageCode)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.Extractor.Timeout != 15*time.Second {
		t.Errorf("expected default extractor timeout 15s, got %v", cfg.Extractor.Timeout)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicRecorded != "interaction.recorded" {
		t.Errorf("expected default recorded topic, got %s", cfg.Kafka.TopicRecorded)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("STT_PROVIDER", "google")
	os.Setenv("STT_SAMPLE_RATE_HZ", "8000")
	os.Setenv("WA_DOWNLOAD_TIMEOUT", "45s")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	defer func() {
		os.Unsetenv("SERVICE_PRINCIPAL")
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("STT_PROVIDER")
		os.Unsetenv("STT_SAMPLE_RATE_HZ")
		os.Unsetenv("WA_DOWNLOAD_TIMEOUT")
		os.Unsetenv("KAFKA_ENABLED")
		os.Unsetenv("KAFKA_BROKERS")
	}()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected STT provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 8000 {
		t.Errorf("expected sample rate 8000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.WhatsApp.DownloadTimeout != 45*time.Second {
		t.Errorf("expected download timeout 45s, got %v", cfg.WhatsApp.DownloadTimeout)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker-1:9092" || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("expected two trimmed brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	os.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	os.Setenv("WA_SEND_TIMEOUT", "invalid")
	os.Setenv("KAFKA_ENABLED", "invalid")

	defer func() {
		os.Unsetenv("STT_SAMPLE_RATE_HZ")
		os.Unsetenv("WA_SEND_TIMEOUT")
		os.Unsetenv("KAFKA_ENABLED")
	}()

	cfg := Load()

	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate on invalid input, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.WhatsApp.SendTimeout != 10*time.Second {
		t.Errorf("expected default send timeout on invalid input, got %v", cfg.WhatsApp.SendTimeout)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled on invalid input")
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "my-service")
	os.Unsetenv("KAFKA_PRINCIPAL")

	defer os.Unsetenv("SERVICE_PRINCIPAL")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			if got := envOrDefaultBool(key, tt.def); got != tt.expected {
				t.Errorf("envOrDefaultBool(%q, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}

func TestEnvOrDefaultList(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected []string
	}{
		{"single", "a:9092", []string{"a:9092"}},
		{"multiple with spaces", "a:9092, b:9092 ,c:9092", []string{"a:9092", "b:9092", "c:9092"}},
		{"only commas", ",,", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_LIST_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			got := envOrDefaultList(key, nil)
			if len(got) != len(tt.expected) {
				t.Fatalf("envOrDefaultList(%q) = %v, want %v", tt.envValue, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("envOrDefaultList(%q)[%d] = %q, want %q", tt.envValue, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
