// Package config loads runtime configuration for the Genio client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv) for credentials and endpoints.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string    storage backend: demo, drive, webhook, s3, gcs
//	-w string    webhook base URL
//	-e string    S3 base endpoint
//	-k string    object storage bucket (S3 and GCS)
//	-d duration  simulated backend latency
//	-f float     simulated backend failure rate
//	-l string    log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "1s"
// or integer nanoseconds:
//
//	{
//	  "backend": "webhook",
//	  "webhook_url": "https://n8n.example.com/webhook",
//	  "demo_latency": "500ms",
//	  "request_timeout": "30s"
//	}
//
// An absent or placeholder Google client id keeps the client in demo mode
// regardless of the selected backend; see auth.IsPlaceholder.
package config
