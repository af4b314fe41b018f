package config

import (
	"os"
	"strconv"
)

// parseEnv overlays Config fields from environment variables. The variable
// names follow the deployment contract of the frontend and hosting setup,
// which is why they do not share a common prefix.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("PORT"); ok {
		config.EndpointAddr = ":" + v
	}
	if v, ok := os.LookupEnv("CONNECTION_STRING"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_SECRET"); ok {
		config.AccessTokenSecret = v
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_SECRET"); ok {
		config.RefreshTokenSecret = v
	}
	if v, ok := os.LookupEnv("APP_URL"); ok {
		config.AppURL = v
	}
	if v, ok := os.LookupEnv("FRONTEND_ALLOWED_URL"); ok {
		config.FrontendAllowedURL = v
	}
	if v, ok := os.LookupEnv("APP_ENV"); ok {
		config.Production = v == "production"
	}
	if v, ok := os.LookupEnv("EMAIL_HOST"); ok {
		config.SMTPHost = v
	}
	if v, ok := os.LookupEnv("EMAIL_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = port
		}
	}
	if v, ok := os.LookupEnv("EMAIL_USERNAME"); ok {
		config.SMTPUsername = v
	}
	if v, ok := os.LookupEnv("EMAIL_PASSWORD"); ok {
		config.SMTPPassword = v
	}
	if v, ok := os.LookupEnv("EMAIL_FROM"); ok {
		config.EmailFrom = v
	}
}
