package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the process-wide configuration. It is loaded once at startup
// and passed explicitly into each component; nothing mutates it afterwards.
type Config struct {
	// WhatsApp Cloud API configuration
	WhatsAppToken string
	PhoneNumberID string
	GraphBaseURL  string

	// Webhook configuration
	VerifyToken string

	// Only handle deliveries addressed to PhoneNumberID. Some deployments
	// receive webhooks for several numbers on one endpoint.
	EnforcePhoneNumberID bool

	// Gemini configuration
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Server configuration
	Port string
}

const (
	defaultGraphBaseURL  = "https://graph.facebook.com/v23.0"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// LoadConfig reads configuration from the environment. A missing credential
// is a startup error: the relay cannot verify webhooks or reach either
// upstream API without the full set.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		WhatsAppToken:        os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID:        os.Getenv("PHONE_NUMBER_ID"),
		GraphBaseURL:         getEnv("GRAPH_BASE_URL", defaultGraphBaseURL),
		VerifyToken:          os.Getenv("VERIFY_TOKEN"),
		EnforcePhoneNumberID: getEnvBool("ENFORCE_PHONE_NUMBER_ID", true),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", defaultGeminiBaseURL),
		GeminiModel:          getEnv("GEMINI_MODEL", defaultGeminiModel),
		Port:                 getEnv("PORT", "8080"),
	}

	var missing []string
	if cfg.WhatsAppToken == "" {
		missing = append(missing, "WHATSAPP_TOKEN")
	}
	if cfg.PhoneNumberID == "" {
		missing = append(missing, "PHONE_NUMBER_ID")
	}
	if cfg.VerifyToken == "" {
		missing = append(missing, "VERIFY_TOKEN")
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
