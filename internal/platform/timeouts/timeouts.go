// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ScenarioStep caps a single scenario step, including any storage it does.
const ScenarioStep = 10 * time.Second

// StoreBusy is how long SQLite waits on a locked database before failing.
const StoreBusy = 5 * time.Second

// TelemetryShutdown limits how long commands wait for pending spans to flush
// on exit.
const TelemetryShutdown = 5 * time.Second
