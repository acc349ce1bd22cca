// Package app is the composition root of postboard.
//
// # Overview
//
// Setup turns configuration into running components:
//
//  1. Load ~/.config/postboard/config.toml (or the given path)
//  2. Build the zap logger writing JSON lines to log_path
//  3. Load prefs.toml and overlay page size and sort on the view parameters
//  4. Build the HTTP gateway with its timeout and rate limit
//  5. Build the session with the write strategy and a Prometheus recorder
//
// Run adds the long-lived pieces around the TUI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Setup()            config, logger, gateway, session
//	       ├─────> StartMetrics()     /metrics when metrics_addr is set
//	       ├─────> StartRefresher()   periodic Refresh when refresh_every > 0
//	       └─────> ui.Run()           TUI (blocks)
//
// CLI subcommands call Setup directly and skip the TUI.
//
// # Refresh Behavior
//
// The refresher waits one interval, calls Session.Refresh, and schedules the
// next call. Unlike FetchAll, a refresh keeps the page the user is reading and
// only clamps it when the collection shrank below it. After a failure the delay doubles per consecutive failure up to 30
// seconds:
//
//	failures=0: interval
//	failures=1: 2 × interval
//	failures=2: 4 × interval
//	...capped at 30s
//
// The first success resets the delay. Refreshes go through the same session
// as user actions, so a refresh that resolves after a local create or delete
// replaces the collection with the remote's view of it.
//
// # Shutdown
//
// Cancelling the context passed to Run stops the refresher, the metrics
// server and the TUI. Env.Close flushes the logger.
package app
