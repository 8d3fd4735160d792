// Package telemetry is a minimal, strictly best-effort client that records
// one event per `hooks run` invocation (hook id, outcome tag, duration —
// never payload content, file paths, or diagnostics). Adapted from the
// prior CLI's telemetry package, narrowed from its per-command tracking
// (command path, flags, agent, strategy) down to the single event
// Claudekit's hook-only product surface has.
package telemetry

import (
	"net"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"
)

// TelemetryOptoutEnvVar short-circuits telemetry regardless of config.
const TelemetryOptoutEnvVar = "CLAUDEKIT_TELEMETRY_OPTOUT"

var (
	// PostHogAPIKey is set at build time for production.
	PostHogAPIKey = "phc_development_key"
	// PostHogEndpoint is set at build time for production.
	PostHogEndpoint = "https://eu.i.posthog.com"
)

// Client defines the telemetry interface every hook invocation uses.
type Client interface {
	TrackHookRun(hookID, outcome string, durationMs int64)
	Close()
}

// NoOpClient is used whenever telemetry is disabled, opted out, or the
// real client failed to initialize — the common path pays zero cost.
type NoOpClient struct{}

func (NoOpClient) TrackHookRun(_, _ string, _ int64) {}
func (NoOpClient) Close()                            {}

type silentLogger struct{}

func (silentLogger) Logf(_ string, _ ...interface{})   {}
func (silentLogger) Debugf(_ string, _ ...interface{}) {}
func (silentLogger) Warnf(_ string, _ ...interface{})  {}
func (silentLogger) Errorf(_ string, _ ...interface{}) {}

// PostHogClient is the real telemetry client.
type PostHogClient struct {
	client    posthog.Client
	machineID string
	mu        sync.RWMutex
}

// NewClient builds a Client based on opt-in settings: telemetryEnabled
// comes from hooks.global.telemetry (nil/false => disabled by default),
// overridden by CLAUDEKIT_TELEMETRY_OPTOUT.
//
//nolint:ireturn // factory returns NoOpClient or PostHogClient based on settings
func NewClient(version string, telemetryEnabled bool) Client {
	if os.Getenv(TelemetryOptoutEnvVar) != "" {
		return NoOpClient{}
	}
	if !telemetryEnabled {
		return NoOpClient{}
	}

	id, err := machineid.ProtectedID("claudekit")
	if err != nil {
		return NoOpClient{}
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 100 * time.Millisecond,
		}).DialContext,
		TLSHandshakeTimeout:   100 * time.Millisecond,
		ResponseHeaderTimeout: 100 * time.Millisecond,
	}

	client, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:           PostHogEndpoint,
		ShutdownTimeout:    100 * time.Millisecond,
		BatchUploadTimeout: 200 * time.Millisecond,
		Transport:          transport,
		Logger:             silentLogger{},
		DisableGeoIP:       posthog.Ptr(true),
		DefaultEventProperties: posthog.NewProperties().
			Set("claudekit_version", version).
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH),
	})
	if err != nil {
		return NoOpClient{}
	}

	return &PostHogClient{client: client, machineID: id}
}

// TrackHookRun records one hook invocation: id, outcome tag, duration.
// Never includes payload content, file paths, or diagnostics.
func (p *PostHogClient) TrackHookRun(hookID, outcome string, durationMs int64) {
	p.mu.RLock()
	id := p.machineID
	c := p.client
	p.mu.RUnlock()
	if c == nil {
		return
	}

	props := posthog.NewProperties().
		Set("hook_id", hookID).
		Set("outcome", outcome).
		Set("duration_ms", durationMs)

	//nolint:errcheck // best-effort telemetry, failures should not affect the hook's response
	_ = c.Enqueue(posthog.Capture{
		DistinctId: id,
		Event:      "hook_run",
		Properties: props,
	})
}

// Close flushes pending events.
func (p *PostHogClient) Close() {
	p.mu.RLock()
	c := p.client
	p.mu.RUnlock()
	if c != nil {
		_ = c.Close()
	}
}
