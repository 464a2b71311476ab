// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/precompile/internal/adapters/cache"
	_ "go.trai.ch/precompile/internal/adapters/config"
	_ "go.trai.ch/precompile/internal/adapters/fs"
	_ "go.trai.ch/precompile/internal/adapters/logger"
	_ "go.trai.ch/precompile/internal/adapters/metrics"
	_ "go.trai.ch/precompile/internal/adapters/shell"
	_ "go.trai.ch/precompile/internal/adapters/swift"
	_ "go.trai.ch/precompile/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/precompile/internal/app"
	_ "go.trai.ch/precompile/internal/engine/orchestrator"
)
