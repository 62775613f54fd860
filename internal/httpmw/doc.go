// Package httpmw provides HTTP middleware for the preview server.
//
// Middleware is composed in a fixed order in httpserver.NewHandler:
// request ID, panic recovery, OTEL tracing, metrics, structured request
// logging, then the chi router. Each middleware is an independent function
// that can be tested and reordered individually.
//
// User-supplied data (query params, user-agent, arbitrary headers) is kept
// out of logs to avoid log injection from previewed content.
package httpmw
