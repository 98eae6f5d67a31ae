package ports

import "go.trai.ch/mymake/internal/core/domain"

// ConfigLoader defines the interface for loading description and settings files.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the description file at path and returns its target graph.
	Load(path string) (*domain.Description, error)

	// CleanCommands returns the commands of the rule named target in the description file at path
	// without building a graph. A missing rule yields no commands.
	CleanCommands(path, target string) ([]string, error)
}
