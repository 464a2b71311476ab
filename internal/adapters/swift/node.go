package swift

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	fsadapter "go.trai.ch/precompile/internal/adapters/fs"
	"go.trai.ch/precompile/internal/adapters/logger"
	"go.trai.ch/precompile/internal/adapters/metrics"
	"go.trai.ch/precompile/internal/core/ports"
)

// NodeID is the unique identifier for the remote syncer Graft node.
const NodeID graft.ID = "adapter.remote_syncer"

func init() {
	graft.Register(graft.Node[ports.RemoteSyncer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fsadapter.WalkerNodeID, logger.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (ports.RemoteSyncer, error) {
			walker, err := graft.Dep[*fsadapter.Walker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return NewSyncer(&http.Client{}, walker, log, m), nil
		},
	})
}
