package fs

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mymake/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes recipe hashes for build records.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeRecipeHash computes a single hash representing the target name,
// its commands in order, and the environment the commands run with.
func (h *Hasher) ComputeRecipeHash(target string, commands []string, env map[string]string) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(target)
	_, _ = hasher.Write([]byte{0})

	for _, cmd := range commands {
		_, _ = hasher.WriteString(cmd)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	h.hashEnvironment(env, hasher)

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// hashEnvironment hashes environment variables in a deterministic order.
func (h *Hasher) hashEnvironment(env map[string]string, hasher *xxhash.Digest) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}
