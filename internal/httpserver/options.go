package httpserver

import (
	"net/http"

	"github.com/keithlinneman/embeddir/internal/health"
	"github.com/keithlinneman/embeddir/internal/log"
)

type Options struct {
	Logger log.Logger
	Host   string // default "127.0.0.1"; set "" explicitly via AllInterfaces
	Port   int    // default 8080

	// AllInterfaces binds to every interface instead of loopback, for
	// sharing a preview across a LAN.
	AllInterfaces bool

	// Site serves everything the router itself doesn't claim.
	Site http.Handler

	UseRecoverMW bool
	OnPanic      func()

	MetricsMW   func(http.Handler) http.Handler
	RateLimitMW func(http.Handler) http.Handler

	Health    health.Probe
	Readiness health.Probe
}
