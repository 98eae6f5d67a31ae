// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mymake/internal/adapters/config"
	_ "go.trai.ch/mymake/internal/adapters/fs"
	_ "go.trai.ch/mymake/internal/adapters/logger"
	_ "go.trai.ch/mymake/internal/adapters/shell"
	_ "go.trai.ch/mymake/internal/adapters/state"
	// Register app nodes.
	_ "go.trai.ch/mymake/internal/app"
)
