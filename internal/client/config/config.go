package config

import "time"

// Backend names a Gateway fulfillment.
type Backend string

const (
	BackendDemo    Backend = "demo"
	BackendDrive   Backend = "drive"
	BackendWebhook Backend = "webhook"
	BackendS3      Backend = "s3"
	BackendGCS     Backend = "gcs"
)

// Config holds runtime settings for the Genio client.
//
// Fields:
//   - Backend: which storage fulfillment to use; see the Backend constants.
//   - Google*: OAuth client for the Drive backend. Placeholder or empty
//     values switch the client into demo mode.
//   - Webhook*: base URL and optional HS256 secret of the workflow backend.
//   - S3* / GCS* / ObjectPrefix: object storage settings.
//   - DemoLatency / DemoFailureRate: behaviour of the simulated backend.
//   - RequestTimeout: per-request timeout of the HTTP based backends.
type Config struct {
	Backend Backend

	GoogleAPIKey       string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	WebhookURL    string
	WebhookSecret string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	GCSBucket          string
	GCSCredentialsFile string

	ObjectPrefix string

	DemoLatency     time.Duration
	DemoFailureRate float64

	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendDemo
	c.GoogleRedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	c.WebhookURL = "http://localhost:5678/webhook"
	c.S3Region = "us-east-1"
	c.S3Bucket = "genio"
	c.ObjectPrefix = "ventures"
	c.DemoLatency = time.Second
	c.DemoFailureRate = 0
	c.RequestTimeout = 60 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
