package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/genio/internal/flagx"
	"github.com/dmitrijs2005/genio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "500ms" or as nanoseconds.
// Empty fields do not override earlier values.
type JsonConfig struct {
	Backend            string          `json:"backend"`
	GoogleAPIKey       string          `json:"google_api_key"`
	GoogleClientID     string          `json:"google_client_id"`
	GoogleClientSecret string          `json:"google_client_secret"`
	GoogleRedirectURL  string          `json:"google_redirect_url"`
	WebhookURL         string          `json:"webhook_url"`
	WebhookSecret      string          `json:"webhook_secret"`
	S3Bucket           string          `json:"s3_bucket"`
	S3Region           string          `json:"s3_region"`
	S3BaseEndpoint     string          `json:"s3_base_endpoint"`
	S3AccessKey        string          `json:"s3_access_key"`
	S3SecretKey        string          `json:"s3_secret_key"`
	GCSBucket          string          `json:"gcs_bucket"`
	GCSCredentialsFile string          `json:"gcs_credentials_file"`
	ObjectPrefix       string          `json:"object_prefix"`
	DemoLatency        *timex.Duration `json:"demo_latency"`
	DemoFailureRate    *float64        `json:"demo_failure_rate"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	LogLevel           string          `json:"log_level"`
	LogFormat          string          `json:"log_format"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Without the flag nothing is loaded. Read or decode errors panic, matching
// the flag parser: a broken config must stop the client at startup.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	if jc.Backend != "" {
		cfg.Backend = Backend(jc.Backend)
	}
	str(&cfg.GoogleAPIKey, jc.GoogleAPIKey)
	str(&cfg.GoogleClientID, jc.GoogleClientID)
	str(&cfg.GoogleClientSecret, jc.GoogleClientSecret)
	str(&cfg.GoogleRedirectURL, jc.GoogleRedirectURL)
	str(&cfg.WebhookURL, jc.WebhookURL)
	str(&cfg.WebhookSecret, jc.WebhookSecret)
	str(&cfg.S3Bucket, jc.S3Bucket)
	str(&cfg.S3Region, jc.S3Region)
	str(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	str(&cfg.S3AccessKey, jc.S3AccessKey)
	str(&cfg.S3SecretKey, jc.S3SecretKey)
	str(&cfg.GCSBucket, jc.GCSBucket)
	str(&cfg.GCSCredentialsFile, jc.GCSCredentialsFile)
	str(&cfg.ObjectPrefix, jc.ObjectPrefix)
	str(&cfg.LogLevel, jc.LogLevel)
	str(&cfg.LogFormat, jc.LogFormat)

	if jc.DemoLatency != nil {
		cfg.DemoLatency = jc.DemoLatency.Duration
	}
	if jc.DemoFailureRate != nil {
		cfg.DemoFailureRate = *jc.DemoFailureRate
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
