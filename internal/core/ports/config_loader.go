package ports

import "go.trai.ch/precompile/internal/core/domain"

// ConfigLoader defines the interface for loading the run configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file (relative to dir) and resolves defaults.
	// A missing default file yields the default configuration.
	Load(dir, file string) (*domain.Config, error)
}
