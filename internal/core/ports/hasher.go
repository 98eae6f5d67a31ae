package ports

// Hasher defines the interface for computing recipe hashes.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeRecipeHash computes a hash of the target's commands and the command environment.
	ComputeRecipeHash(target string, commands []string, env map[string]string) string
}
