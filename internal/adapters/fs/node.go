package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mymake/internal/core/ports"
)

const (
	// StatterNodeID is the unique identifier for the file statter Graft node.
	StatterNodeID graft.ID = "adapter.fs.statter"
	// HasherNodeID is the unique identifier for the recipe hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.FileStatter]{
		ID:        StatterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileStatter, error) {
			return NewStatter("."), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
