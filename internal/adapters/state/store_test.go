package state_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.trai.ch/mymake/internal/adapters/state"
	"go.trai.ch/mymake/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	store := state.NewStore(filepath.Join(t.TempDir(), ".mymake", "state.json"))

	info := domain.BuildInfo{
		Target:     "prog",
		RecipeHash: "abc",
		Timestamp:  time.Now(),
		Duration:   time.Second,
	}

	if err := store.Put(info); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("prog")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.RecipeHash != info.RecipeHash {
		t.Errorf("expected RecipeHash %q, got %q", info.RecipeHash, got.RecipeHash)
	}

	missing, err := store.Get("other")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown target, got %+v", missing)
	}
}

func TestStore_Persistence(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")

	if err := state.NewStore(storePath).Put(domain.BuildInfo{Target: "lib.a", RecipeHash: "xyz"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := state.NewStore(storePath).Get("lib.a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.RecipeHash != "xyz" {
		t.Errorf("expected RecipeHash %q, got %q", "xyz", got.RecipeHash)
	}
}

func TestStore_OmitZero(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")

	if err := state.NewStore(storePath).Put(domain.BuildInfo{Target: "zero"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	jsonStr := string(content)
	for _, field := range []string{"recipe_hash", "timestamp", "duration"} {
		if strings.Contains(jsonStr, field) {
			t.Errorf("JSON should not contain %q for zero value: %s", field, jsonStr)
		}
	}
	if !strings.Contains(jsonStr, `"target": "zero"`) {
		t.Errorf("JSON should contain the target: %s", jsonStr)
	}
}

func TestStore_Corrupted(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(storePath, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := state.NewStore(storePath)
	_, err := store.Get("prog")
	if !errors.Is(err, domain.ErrStoreUnmarshalFailed) {
		t.Fatalf("expected ErrStoreUnmarshalFailed, got %v", err)
	}

	// Clearing a corrupted store recovers it.
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Get("prog"); err != nil {
		t.Fatalf("Get after Clear failed: %v", err)
	}
}

func TestStore_Clear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".mymake")
	storePath := filepath.Join(dir, "state.json")
	store := state.NewStore(storePath)

	if err := store.Put(domain.BuildInfo{Target: "prog", RecipeHash: "abc"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := os.Stat(storePath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected store file to be removed, stat err = %v", err)
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected empty state directory to be removed, stat err = %v", err)
	}
	got, err := store.Get("prog")
	if err != nil || got != nil {
		t.Errorf("expected no record after Clear, got %+v, %v", got, err)
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}
