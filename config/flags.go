package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Flags holds the command-line overrides. Only flags the user set are
// applied, so defaults registered here never shadow the file or the
// environment.
type Flags struct {
	fs *pflag.FlagSet

	ConfigFile    string
	Host          string
	Port          int
	ProbeTimeout  time.Duration
	RunTimeout    time.Duration
	MaxMemory     float64
	MaxCPU        float64
	MaxDisk       float64
	CriticalPaths []string
	Dependencies  []string
	LogLevel      string
	LogFormat     string
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}

	fs.StringVarP(&f.ConfigFile, "config", "c", "", "path to a YAML configuration file")
	fs.StringVar(&f.Host, "host", d.Host, "host of the service's own health endpoint")
	fs.IntVar(&f.Port, "port", d.Port, "port of the service's own health endpoint")
	fs.DurationVar(&f.ProbeTimeout, "probe-timeout", d.ProbeTimeout, "per-probe timeout")
	fs.DurationVar(&f.RunTimeout, "run-timeout", d.RunTimeout, "timeout for a whole run (0 for none)")
	fs.Float64Var(&f.MaxMemory, "max-memory-percent", d.MaxMemoryPercent, "memory usage limit in percent (negative disables)")
	fs.Float64Var(&f.MaxCPU, "max-cpu-percent", d.MaxCPUPercent, "CPU usage limit in percent (negative disables)")
	fs.Float64Var(&f.MaxDisk, "max-disk-percent", d.MaxDiskPercent, "disk usage limit in percent (0 reports only)")
	fs.StringSliceVar(&f.CriticalPaths, "critical-path", nil, "path that must exist and be readable and writable (repeatable)")
	fs.StringSliceVar(&f.Dependencies, "dependency", nil, "dependency as name=address (repeatable)")
	fs.StringVar(&f.LogLevel, "log-level", d.Logging.Level, "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, "log-format", d.Logging.Format, "log format: json, console")

	return f
}

// Apply overrides cfg with every flag set on the command line.
func (f *Flags) Apply(cfg *Config) error {
	if f == nil || f.fs == nil {
		return nil
	}
	changed := f.fs.Changed

	if changed("host") {
		cfg.Host = f.Host
	}
	if changed("port") {
		cfg.Port = f.Port
	}
	if changed("probe-timeout") {
		cfg.ProbeTimeout = f.ProbeTimeout
	}
	if changed("run-timeout") {
		cfg.RunTimeout = f.RunTimeout
	}
	if changed("max-memory-percent") {
		cfg.MaxMemoryPercent = f.MaxMemory
	}
	if changed("max-cpu-percent") {
		cfg.MaxCPUPercent = f.MaxCPU
	}
	if changed("max-disk-percent") {
		cfg.MaxDiskPercent = f.MaxDisk
	}
	if changed("critical-path") {
		cfg.CriticalPaths = f.CriticalPaths
	}
	if changed("dependency") {
		deps, err := ParseDependencies(f.Dependencies)
		if err != nil {
			return fmt.Errorf("%w: --dependency: %v", ErrInvalidConfig, err)
		}
		cfg.Dependencies = deps
	}
	if changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = f.LogFormat
	}
	return nil
}

// LoadWithFlags is Load with the --config path and the command-line
// overrides applied last.
func LoadWithFlags(f *Flags, lookup LookupFunc) (*Config, error) {
	path := ""
	if f != nil {
		path = f.ConfigFile
	}
	return load(path, lookup, f)
}
