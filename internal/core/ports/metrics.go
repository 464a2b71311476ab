package ports

import (
	"time"

	"go.trai.ch/precompile/internal/core/domain"
)

// Metrics records run outcomes.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveOutcome records the terminal outcome of a run and the build time.
	ObserveOutcome(outcome domain.Outcome, elapsed time.Duration)
	// ObserveUpload records the result of one object sync ("uploaded", "skipped", "failed").
	ObserveUpload(result string)
	// Flush writes the collected metrics to path. An empty path is a no-op.
	Flush(path string) error
}
