package probes

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jonwraymond/probekit/health"
)

// Metric labels used in threshold issues.
const (
	MetricCPU    = "CPU usage"
	MetricMemory = "memory usage"
	MetricDisk   = "disk usage"
)

// ResourceConfig configures the resource-threshold probe.
type ResourceConfig struct {
	// Name is the probe name.
	// Default: "resources"
	Name string

	// Sampler reads the host metrics.
	// Default: HostSampler
	Sampler Sampler

	// MaxCPUPercent is the CPU ceiling. Negative disables the check.
	// Default: 95
	MaxCPUPercent float64

	// MaxMemoryPercent is the memory ceiling. Negative disables the check.
	// Default: 90
	MaxMemoryPercent float64

	// MaxDiskPercent is the disk ceiling for MountPoint.
	// Default: 0 (reported, not evaluated)
	MaxDiskPercent float64

	// MountPoint selects the filesystem for disk usage.
	// Default: "/"
	MountPoint string

	// CPUInterval is the CPU sampling window.
	// Default: 1 second
	CPUInterval time.Duration
}

// Resources samples CPU, memory and disk usage and evaluates them against
// thresholds. It is unhealthy if any evaluated metric exceeds its limit.
type Resources struct {
	config     ResourceConfig
	thresholds health.Thresholds
}

var _ health.Probe = (*Resources)(nil)

// NewResources creates a resource probe.
func NewResources(config ResourceConfig) *Resources {
	if config.Name == "" {
		config.Name = "resources"
	}
	if config.Sampler == nil {
		config.Sampler = HostSampler{}
	}
	if config.MaxCPUPercent == 0 {
		config.MaxCPUPercent = 95
	}
	if config.MaxMemoryPercent == 0 {
		config.MaxMemoryPercent = 90
	}
	if config.MountPoint == "" {
		config.MountPoint = "/"
	}
	if config.CPUInterval <= 0 {
		config.CPUInterval = time.Second
	}

	return &Resources{
		config: config,
		thresholds: health.Thresholds{
			{Metric: MetricCPU, Limit: config.MaxCPUPercent},
			{Metric: MetricMemory, Limit: config.MaxMemoryPercent},
			{Metric: MetricDisk, Limit: config.MaxDiskPercent},
		},
	}
}

// Name returns the probe name.
func (r *Resources) Name() string {
	return r.config.Name
}

// Check samples every metric. A sampling failure is an error outcome.
func (r *Resources) Check(ctx context.Context) health.Outcome {
	cpuPct, err := r.config.Sampler.CPUPercent(ctx, r.config.CPUInterval)
	if err != nil {
		return health.Errored(fmt.Errorf("sample cpu: %w", err))
	}
	memPct, err := r.config.Sampler.MemoryPercent(ctx)
	if err != nil {
		return health.Errored(fmt.Errorf("sample memory: %w", err))
	}
	used, total, err := r.config.Sampler.DiskUsage(ctx, r.config.MountPoint)
	if err != nil {
		return health.Errored(fmt.Errorf("sample disk %s: %w", r.config.MountPoint, err))
	}
	var diskPct float64
	if total > 0 {
		diskPct = float64(used) / float64(total) * 100
	}

	status, issues := r.thresholds.Evaluate(map[string]float64{
		MetricCPU:    cpuPct,
		MetricMemory: memPct,
		MetricDisk:   diskPct,
	})

	details := map[string]any{
		"cpu_percent":    round2(cpuPct),
		"memory_percent": round2(memPct),
		"disk_percent":   round2(diskPct),
		"mount_point":    r.config.MountPoint,
		"issues":         issues,
	}
	if status == health.StatusUnhealthy {
		return health.Unhealthy(details)
	}
	return health.Healthy(details)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
