// Package server exposes the relay over HTTP: the job-runner webhook, the
// viewer WebSocket stream, and health/metrics/version endpoints on an Echo
// server. Both auth checks are static shared secrets and each is disabled
// when its secret is unconfigured.
package server
