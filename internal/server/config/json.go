package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mzaytsev/authd/internal/flagx"
)

// duration wraps time.Duration so interval fields in JSON config files can
// be written as strings such as "15m" or "168h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, set fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string   `json:"endpoint_addr"`
	DatabaseDSN                  string   `json:"database_dsn"`
	AccessTokenSecret            string   `json:"access_token_secret"`
	RefreshTokenSecret           string   `json:"refresh_token_secret"`
	AccessTokenValidityDuration  duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration duration `json:"refresh_token_validity_duration"`
	OneTimeTokenValidityDuration duration `json:"one_time_token_validity_duration"`
	EmailResendCooldown          duration `json:"email_resend_cooldown"`
	AppURL                       string   `json:"app_url"`
	FrontendAllowedURL           string   `json:"frontend_allowed_url"`
	Production                   bool     `json:"production"`
	SMTPHost                     string   `json:"smtp_host"`
	SMTPPort                     int      `json:"smtp_port"`
	SMTPUsername                 string   `json:"smtp_username"`
	SMTPPassword                 string   `json:"smtp_password"`
	EmailFrom                    string   `json:"email_from"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If neither flag is set, no file
// is loaded. A file that cannot be read or parsed is a startup failure.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AccessTokenSecret != "" {
		config.AccessTokenSecret = c.AccessTokenSecret
	}
	if c.RefreshTokenSecret != "" {
		config.RefreshTokenSecret = c.RefreshTokenSecret
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.OneTimeTokenValidityDuration.Duration != 0 {
		config.OneTimeTokenValidityDuration = c.OneTimeTokenValidityDuration.Duration
	}
	if c.EmailResendCooldown.Duration != 0 {
		config.EmailResendCooldown = c.EmailResendCooldown.Duration
	}
	if c.AppURL != "" {
		config.AppURL = c.AppURL
	}
	if c.FrontendAllowedURL != "" {
		config.FrontendAllowedURL = c.FrontendAllowedURL
	}
	if c.Production {
		config.Production = true
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SMTPUsername != "" {
		config.SMTPUsername = c.SMTPUsername
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.EmailFrom != "" {
		config.EmailFrom = c.EmailFrom
	}
}
