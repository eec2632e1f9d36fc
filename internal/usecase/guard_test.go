package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arklim/cinema-booking/internal/repository"
)

func TestCheckVersion(t *testing.T) {
	current := "v-1"

	if err := checkVersion(nil, current); !errors.Is(err, ErrVersionRequired) {
		t.Fatalf("nil expected version should yield ErrVersionRequired, got %v", err)
	}

	stale := "v-0"
	if err := checkVersion(&stale, current); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("stale version should yield ErrVersionMismatch, got %v", err)
	}

	match := "v-1"
	if err := checkVersion(&match, current); err != nil {
		t.Fatalf("matching version should pass, got %v", err)
	}
}

func TestNextVersionUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v := nextVersion()
		if v == "" {
			t.Fatalf("version tag must not be empty")
		}
		if seen[v] {
			t.Fatalf("version tag %s repeated", v)
		}
		seen[v] = true
	}
}

func TestMapRepoError(t *testing.T) {
	if err := mapRepoError(nil); err != nil {
		t.Fatalf("nil should map to nil, got %v", err)
	}
	if err := mapRepoError(repository.ErrNotFound); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ErrNotFound should map to usecase ErrNotFound, got %v", err)
	}
	if err := mapRepoError(repository.ErrVersionConflict); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("ErrVersionConflict should map to ErrVersionMismatch, got %v", err)
	}
	if err := mapRepoError(repository.ErrDuplicate); !errors.Is(err, ErrLoginTaken) {
		t.Fatalf("ErrDuplicate should map to ErrLoginTaken, got %v", err)
	}

	plain := fmt.Errorf("connection refused")
	mapped := mapRepoError(plain)
	if mapped == nil || !errors.Is(mapped, plain) {
		t.Fatalf("unknown errors should be wrapped, got %v", mapped)
	}
}
