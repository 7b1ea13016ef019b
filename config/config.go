package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:""`

	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	JWT       JWTConfig
	OAuth     OAuthConfig
	Geocoding GeocodingConfig
	OTP       OTPConfig
	Booking   BookingConfig
	Jobs      JobsConfig
}

type HTTPConfig struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	CorsOrigins       string        `envconfig:"CORS_ORIGINS" default:"*"`
	ReadTimeout       time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	ReadHeaderTimeout time.Duration `envconfig:"HTTP_READ_HEADER_TIMEOUT" default:"5s"`

	// SSE streams stay open, so no write timeout by default.
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	PublicURL       string        `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
}

type DatabaseConfig struct {
	URL      string        `envconfig:"MYSQL_URL"`
	AltURL   string        `envconfig:"DATABASE_URL"`
	User     string        `envconfig:"DB_USER" default:"root"`
	Pass     string        `envconfig:"DB_PASS" default:""`
	Host     string        `envconfig:"DB_HOST" default:"127.0.0.1"`
	Port     string        `envconfig:"DB_PORT" default:"3306"`
	Name     string        `envconfig:"DB_NAME" default:"stay_db"`
	Seed     bool          `envconfig:"DB_SEED" default:"true"`
	SlowSQL  time.Duration `envconfig:"DB_SLOW_THRESHOLD" default:"1s"`
	MaxOpen  int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdle  int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	Lifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

// RedisConfig with an empty Addr switches stores, locks and jobs to in-process fallbacks.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Addr) != "" }

type AMQPConfig struct {
	URL string `envconfig:"AMQP_URL"`
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"stay-booking"`
}

type OAuthProvider struct {
	ClientID     string
	ClientSecret string
}

func (p OAuthProvider) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type OAuthConfig struct {
	RedirectURL string `envconfig:"OAUTH_REDIRECT_URL" default:"http://localhost:8080/api/auth/callback"`

	// AppRedirect receives the session token after the provider callback (the app's auth/callback route).
	AppRedirect string `envconfig:"OAUTH_APP_REDIRECT" default:"stay://auth/callback"`

	GoogleClientID   string        `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleSecret     string        `envconfig:"GOOGLE_CLIENT_SECRET"`
	AppleClientID    string        `envconfig:"APPLE_CLIENT_ID"`
	AppleSecret      string        `envconfig:"APPLE_CLIENT_SECRET"`
	FacebookClientID string        `envconfig:"FACEBOOK_CLIENT_ID"`
	FacebookSecret   string        `envconfig:"FACEBOOK_CLIENT_SECRET"`
	StateTTL         time.Duration `envconfig:"OAUTH_STATE_TTL" default:"10m"`
}

func (o OAuthConfig) Provider(name string) OAuthProvider {
	switch name {
	case "google":
		return OAuthProvider{ClientID: o.GoogleClientID, ClientSecret: o.GoogleSecret}
	case "apple":
		return OAuthProvider{ClientID: o.AppleClientID, ClientSecret: o.AppleSecret}
	case "facebook":
		return OAuthProvider{ClientID: o.FacebookClientID, ClientSecret: o.FacebookSecret}
	}
	return OAuthProvider{}
}

type GeocodingConfig struct {
	APIKey    string        `envconfig:"OPENCAGE_API_KEY"`
	BaseURL   string        `envconfig:"OPENCAGE_BASE_URL" default:"https://api.opencagedata.com/geocode/v1/json"`
	Timeout   time.Duration `envconfig:"GEOCODING_TIMEOUT" default:"5s"`
	Threshold int64         `envconfig:"GEOCODING_BREAKER_THRESHOLD" default:"5"`
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"OTP_TTL" default:"5m"`
	MaxAttempts int           `envconfig:"OTP_MAX_ATTEMPTS" default:"5"`
}

type BookingConfig struct {
	TaxRatePercent    int64         `envconfig:"BOOKING_TAX_PERCENT" default:"20"`
	CancelWindow      time.Duration `envconfig:"BOOKING_CANCEL_WINDOW" default:"24h"`
	DraftTTL          time.Duration `envconfig:"BOOKING_DRAFT_TTL" default:"2h"`
	ReferenceAttempts int           `envconfig:"BOOKING_REFERENCE_ATTEMPTS" default:"5"`
}

type JobsConfig struct {
	CompletionSpec     string        `envconfig:"JOBS_COMPLETION_CRON" default:"@every 1h"`
	CompletionInterval time.Duration `envconfig:"JOBS_COMPLETION_INTERVAL" default:"1h"`
	MonitoringEnabled  bool          `envconfig:"JOBS_MONITORING_ENABLED" default:"false"`
	MonitoringPath     string        `envconfig:"JOBS_MONITORING_PATH" default:"/monitoring"`
	MonitoringUser     string        `envconfig:"JOBS_MONITORING_USER" default:"admin"`
	MonitoringPassword string        `envconfig:"JOBS_MONITORING_PASSWORD"`
}

// Load reads the process environment into a Config. Call godotenv first if a .env file should count.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Booking.TaxRatePercent < 0 {
		return nil, fmt.Errorf("BOOKING_TAX_PERCENT must not be negative")
	}
	if cfg.Jobs.MonitoringEnabled && cfg.Jobs.MonitoringPassword == "" {
		return nil, fmt.Errorf("JOBS_MONITORING_PASSWORD is required when JOBS_MONITORING_ENABLED is set")
	}
	return &cfg, nil
}

func (c *Config) CorsOrigins() []string {
	raw := strings.TrimSpace(c.HTTP.CorsOrigins)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
