package domain

import "time"

// BuildInfo records the last successful rebuild of a target.
type BuildInfo struct {
	Target     string        `json:"target,omitzero"`
	RecipeHash string        `json:"recipe_hash,omitzero"`
	Timestamp  time.Time     `json:"timestamp,omitzero"`
	Duration   time.Duration `json:"duration,omitzero"`
}
