package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precompile/internal/adapters/logger"
	"go.trai.ch/precompile/internal/core/ports"
)

// NodeID is the unique identifier for the build task Graft node.
const NodeID graft.ID = "adapter.build_task"

func init() {
	graft.Register(graft.Node[ports.BuildTask]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.BuildTask, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})
}
