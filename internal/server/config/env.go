package config

import (
	"os"
	"time"
)

// parseEnv overlays selected Config fields from environment variables.
//
// Recognized variables:
//
//	ADDRESS           HTTP bind address (e.g., ":8080")
//	DATABASE_URL      PostgreSQL DSN
//	TOKEN_SECRET      JWT HMAC secret key
//	AES_SECRET_KEY    base64-encoded 32-byte AES key
//	TOKEN_VALIDITY    access token validity (Go duration, e.g. "24h")
//	ALLOWED_ORIGIN    CORS origin
//	DEMO_EMAIL, DEMO_USERNAME, DEMO_PASSWORD  demo account settings
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("TOKEN_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("AES_SECRET_KEY"); ok {
		config.CipherKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGIN"); ok {
		config.AllowedOrigin = v
	}
	if v, ok := os.LookupEnv("DEMO_EMAIL"); ok {
		config.DemoEmail = v
	}
	if v, ok := os.LookupEnv("DEMO_USERNAME"); ok {
		config.DemoUsername = v
	}
	if v, ok := os.LookupEnv("DEMO_PASSWORD"); ok {
		config.DemoPassword = v
	}
}
