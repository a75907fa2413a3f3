package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/genio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string    backend: demo, drive, webhook, s3, gcs
//	-w string    webhook base URL
//	-e string    S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-k string    S3 / GCS bucket
//	-d duration  simulated backend latency (e.g. "1s", "0")
//	-f float     simulated backend failure rate in [0,1]
//	-l string    log level
//
// Arguments are filtered with flagx.FilterArgs first, so the JSON config flag
// and anything meant for other components does not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-w", "-e", "-k", "-d", "-f", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	backend := fs.String("b", string(cfg.Backend), "storage backend: demo, drive, webhook, s3, gcs")
	fs.StringVar(&cfg.WebhookURL, "w", cfg.WebhookURL, "webhook base URL")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	bucket := fs.String("k", "", "object storage bucket")
	fs.DurationVar(&cfg.DemoLatency, "d", cfg.DemoLatency, "simulated backend latency")
	fs.Float64Var(&cfg.DemoFailureRate, "f", cfg.DemoFailureRate, "simulated backend failure rate")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Backend = Backend(*backend)
	if *bucket != "" {
		cfg.S3Bucket = *bucket
		cfg.GCSBucket = *bucket
	}
}
