package probes

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonwraymond/probekit/health"
)

// LivenessName is the default name of the liveness probe.
const LivenessName = "application"

// LivenessConfig configures the liveness probe.
type LivenessConfig struct {
	// Name is the probe name.
	// Default: "application"
	Name string

	// URL is the service's own health endpoint.
	URL string

	// ExpectedStatus is the status code that counts as alive.
	// Default: 200
	ExpectedStatus int

	// Client issues the request.
	// Default: a client with no timeout of its own; the probe context
	// bounds the request.
	Client *http.Client
}

// LivenessURL builds the liveness target from host, port and path.
func LivenessURL(host string, port int, path string) string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   path,
	}
	return u.String()
}

// Liveness issues a trivial request to the service's own health endpoint.
type Liveness struct {
	config LivenessConfig
}

var _ health.Probe = (*Liveness)(nil)

// NewLiveness creates a liveness probe.
func NewLiveness(config LivenessConfig) *Liveness {
	if config.Name == "" {
		config.Name = LivenessName
	}
	if config.ExpectedStatus == 0 {
		config.ExpectedStatus = http.StatusOK
	}
	if config.Client == nil {
		config.Client = &http.Client{}
	}
	return &Liveness{config: config}
}

// Name returns the probe name.
func (l *Liveness) Name() string {
	return l.config.Name
}

// Check performs the request. A transport failure (refused, unresolvable)
// is unhealthy; a URL that cannot form a request is an error.
func (l *Liveness) Check(ctx context.Context) health.Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.config.URL, nil)
	if err != nil {
		return health.Errored(fmt.Errorf("liveness request: %w", err))
	}

	start := time.Now()
	resp, err := l.config.Client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return health.Unhealthy(map[string]any{
			"url":   l.config.URL,
			"error": err.Error(),
		})
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	details := map[string]any{
		"url":              l.config.URL,
		"status_code":      resp.StatusCode,
		"response_time_ms": millis(elapsed),
	}
	if resp.StatusCode != l.config.ExpectedStatus {
		details["error"] = fmt.Sprintf("unexpected status %d, want %d", resp.StatusCode, l.config.ExpectedStatus)
		return health.Unhealthy(details)
	}
	return health.Healthy(details)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
