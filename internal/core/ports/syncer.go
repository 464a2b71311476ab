package ports

import (
	"context"

	"go.trai.ch/precompile/internal/core/domain"
)

// RemoteSyncer pushes a local tree to a remote object store.
//
//go:generate go run go.uber.org/mock/mockgen -source=syncer.go -destination=mocks/mock_syncer.go -package=mocks
type RemoteSyncer interface {
	// Sync uploads every file under localDir that the remote store does not already hold.
	//
	// Per-object failures are collected in the report. The error return is
	// reserved for failures that abort the whole sync, such as authentication.
	Sync(ctx context.Context, localDir string, target domain.SyncTarget) (*domain.SyncReport, error)
}
