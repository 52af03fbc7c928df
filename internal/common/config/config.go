// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct. It is built once at
// startup and injected into every handler/service constructor; nothing reads
// the environment after Load returns.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	ContentStore  ContentStoreConfig `mapstructure:"content_store"`
	ContentAPI    ContentAPIConfig   `mapstructure:"content_api"`
	Webhook       WebhookConfig      `mapstructure:"webhook"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Account       AccountConfig      `mapstructure:"account"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// IsDevelopment reports whether the app runs in development mode. Webhook
// signature verification and OTP-code echoing are gated on this.
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`    // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"`   // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ContentStoreConfig points at the headless content store (MongoDB).
type ContentStoreConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Dataset    string `mapstructure:"dataset"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// ContentAPIConfig points at the REST content API used by search.
type ContentAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type WebhookConfig struct {
	Secret           string `mapstructure:"secret"`
	ToleranceSeconds int    `mapstructure:"tolerance_seconds"`
	DedupTTL         int    `mapstructure:"dedup_ttl"` // seconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IntegrationConfig holds settings for AWS mail/push delivery.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds settings for the fan-out writer.
type NotificationConfig struct {
	// FallbackRecipients is used only when the content store holds no user
	// documents with an email; supplied by the operator, never hardcoded.
	FallbackRecipients []string `mapstructure:"fallback_recipients"`
}

// AccountConfig holds settings for the OTP account flows.
type AccountConfig struct {
	OTPTTL    int `mapstructure:"otp_ttl"`    // seconds
	OTPLength int `mapstructure:"otp_length"` // digits
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func (c ContentStoreConfig) String() string {
	return fmt.Sprintf("mongodb db=%s dataset=%s", c.Database, c.Dataset)
}
