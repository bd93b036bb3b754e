package probes

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// ErrNoSample indicates the host returned no CPU sample.
var ErrNoSample = errors.New("probes: no cpu sample")

// Sampler reads host resource metrics.
type Sampler interface {
	// CPUPercent returns total CPU utilisation over interval.
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)

	// MemoryPercent returns used virtual memory as a percentage.
	MemoryPercent(ctx context.Context) (float64, error)

	// DiskUsage returns used and total bytes of the filesystem backing path.
	DiskUsage(ctx context.Context, path string) (used, total uint64, err error)
}

// HostSampler samples the local host using gopsutil.
type HostSampler struct{}

var _ Sampler = HostSampler{}

// CPUPercent implements Sampler.
func (HostSampler) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, ErrNoSample
	}
	return percents[0], nil
}

// MemoryPercent implements Sampler.
func (HostSampler) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// DiskUsage implements Sampler.
func (HostSampler) DiskUsage(ctx context.Context, path string) (uint64, uint64, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, 0, err
	}
	return u.Used, u.Total, nil
}
