// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ScenarioStep caps how long a single scenario step may run.
const ScenarioStep = 30 * time.Second

// TelemetryShutdown limits how long a command waits for pending spans to
// flush on exit.
const TelemetryShutdown = 5 * time.Second
