// Package health is the probe engine: it runs a registry of independent
// probes concurrently and reduces their outcomes into one report.
//
// # Flow
//
//	Registry -> Executor (fan-out, per-probe timeout) -> Aggregate -> BuildReport
//
// Each probe settles to exactly one Outcome: healthy, unhealthy, skipped or
// error. A probe that panics or overruns its timeout is settled as an error
// by the executor; it never affects its siblings. The overall status is
// unhealthy iff at least one critical probe is unhealthy or error. Skipped
// outcomes never influence it.
//
// # Usage
//
//	reg := health.NewRegistry(5 * time.Second)
//	reg.MustRegister(health.NewProbeFunc("db", pingDB))
//	reg.MustRegister(cacheProbe, health.WithCritical(false))
//
//	engine := health.NewEngine(reg, health.NewExecutor())
//	report, err := engine.Run(ctx)
//	if err != nil {
//	    doc := health.NewErrorDocument(err, time.Now())
//	    ...
//	}
//	os.Exit(report.ExitCode())
//
// # HTTP
//
// LivenessHandler, ReadinessHandler, DetailedHandler and SingleProbeHandler
// expose an engine over net/http. Healthy maps to 200, anything else to 503.
package health
