package config

import (
	"os"
)

// parseEnv overlays credentials and endpoints from environment variables.
// Unset or empty variables leave the current value in place.
//
//	GENIO_BACKEND          Backend
//	GOOGLE_API_KEY         GoogleAPIKey
//	GOOGLE_CLIENT_ID       GoogleClientID
//	GOOGLE_CLIENT_SECRET   GoogleClientSecret
//	N8N_WEBHOOK_URL        WebhookURL
//	N8N_WEBHOOK_SECRET     WebhookSecret
//	AWS_ACCESS_KEY_ID      S3AccessKey
//	AWS_SECRET_ACCESS_KEY  S3SecretKey
//	GOOGLE_APPLICATION_CREDENTIALS  GCSCredentialsFile
func parseEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	var backend string
	set(&backend, "GENIO_BACKEND")
	if backend != "" {
		cfg.Backend = Backend(backend)
	}

	set(&cfg.GoogleAPIKey, "GOOGLE_API_KEY")
	set(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	set(&cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	set(&cfg.WebhookURL, "N8N_WEBHOOK_URL")
	set(&cfg.WebhookSecret, "N8N_WEBHOOK_SECRET")
	set(&cfg.S3AccessKey, "AWS_ACCESS_KEY_ID")
	set(&cfg.S3SecretKey, "AWS_SECRET_ACCESS_KEY")
	set(&cfg.GCSCredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
}
