// Package gateway talks to the remote storage that backs ventures.
//
// Every backend implements Gateway: create a folder, upload a file into it,
// delete a file, delete a folder with its contents. Calls block until the
// backend answers; callers that need concurrency run them in goroutines.
//
// Fulfillments:
//
//   - DriveGateway: Google Drive v3 with the signed-in user's token.
//   - WebhookGateway: workflow-automation (n8n) HTTP endpoints.
//   - ObjectGateway: key-prefix folders in S3-compatible storage or Google
//     Cloud Storage.
//   - Simulated: in-memory backend with artificial latency, used in demo
//     mode and in tests.
//
// Failures are reported with the sentinel errors in errors.go; reasons are
// wrapped so errors.Is works on both the kind and the cause.
package gateway
