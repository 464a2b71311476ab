package ports

import (
	"context"

	"go.trai.ch/precompile/internal/core/domain"
)

// BuildTask runs the external asset build.
//
//go:generate go run go.uber.org/mock/mockgen -source=build_task.go -destination=mocks/mock_build_task.go -package=mocks
type BuildTask interface {
	// RunBuildTask runs the task described by spec and waits for it.
	//
	// A task that runs and exits non-zero is reported through BuildResult.Success.
	// The error return is reserved for tasks that cannot be started at all
	// and wraps domain.ErrBuildTaskUnavailable.
	RunBuildTask(ctx context.Context, spec domain.BuildSpec) (domain.BuildResult, error)
}
