package cache

import (
	"context"

	"github.com/grindlemire/graft"
	fsadapter "go.trai.ch/precompile/internal/adapters/fs"
	"go.trai.ch/precompile/internal/core/ports"
)

// NodeID is the unique identifier for the content cache opener Graft node.
const NodeID graft.ID = "adapter.content_cache"

func init() {
	graft.Register(graft.Node[ports.CacheOpener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fsadapter.HasherNodeID},
		Run: func(ctx context.Context) (ports.CacheOpener, error) {
			hasher, err := graft.Dep[*fsadapter.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewOpener(hasher), nil
		},
	})
}
