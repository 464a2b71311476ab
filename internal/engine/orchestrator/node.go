package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precompile/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precompile/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precompile/internal/adapters/metrics"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precompile/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precompile/internal/adapters/swift"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precompile/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/precompile/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.DetectorNodeID,
			shell.NodeID,
			swift.NodeID,
			logger.NodeID,
			progrock.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			detector, err := graft.Dep[ports.ChangeDetector](ctx)
			if err != nil {
				return nil, err
			}

			task, err := graft.Dep[ports.BuildTask](ctx)
			if err != nil {
				return nil, err
			}

			syncer, err := graft.Dep[ports.RemoteSyncer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			return New(detector, task, syncer, log, tel, m), nil
		},
	})
}
