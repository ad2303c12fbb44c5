// Package health serves the ops endpoints of the retention loop's HTTP
// listener: liveness, readiness and build information.
//
// # Endpoints
//
//   - /health: liveness probe, 200 while the process runs
//   - /ready: readiness probe, 200 when every component probe passes,
//     503 when any fails
//   - /version: build information (version, commit, build date, Go version)
//
// # Probes
//
// A probe is a CheckFunc registered under a component name. The readiness
// endpoint runs all probes concurrently, each bounded by the checker's
// timeout, and degrades the overall status when any probe fails:
//
//	checker := health.New(0)
//	checker.Register("ledger", func(ctx context.Context) error {
//	    _, err := jobLedger.List(ctx, 1)
//	    return err
//	})
//
//	mux := http.NewServeMux()
//	health.Mount(mux, checker, version, commit, buildDate)
//
// Probes should honor their context: a probe that ignores it is abandoned
// when the timeout fires and reported as unhealthy.
//
// # Example Responses
//
// Readiness while healthy:
//
//	{
//	    "status": "ready",
//	    "checks": {
//	        "ledger": {"status": "ok", "duration_ms": 0.4},
//	        "workspace": {"status": "ok", "duration_ms": 0.1}
//	    },
//	    "timestamp": "2026-08-25T10:30:00Z"
//	}
//
// Readiness while degraded (HTTP 503):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "ledger": {"status": "unhealthy", "message": "database is closed"},
//	        "workspace": {"status": "ok", "duration_ms": 0.1}
//	    },
//	    "timestamp": "2026-08-25T10:30:00Z"
//	}
package health
