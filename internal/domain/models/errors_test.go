package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapStorage(t *testing.T) {
	io := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		wantStorage bool
	}{
		{name: "plain error", err: io, wantStorage: true},
		{name: "not found passes through", err: fmt.Errorf("entry 3: %w", ErrNotFound)},
		{name: "validation passes through", err: ValidationError{Field: "kilos", Message: "too many"}},
		{name: "already wrapped", err: &StorageError{Op: "get", Err: io}, wantStorage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapStorage("update", tt.err)
			var se *StorageError
			if errors.As(got, &se) != tt.wantStorage {
				t.Fatalf("WrapStorage(%v) = %v, storage=%v", tt.err, got, !tt.wantStorage)
			}
			if !errors.Is(got, tt.err) && !errors.Is(got, io) {
				t.Fatalf("wrapped error lost its cause: %v", got)
			}
		})
	}

	if WrapStorage("noop", nil) != nil {
		t.Fatal("nil should stay nil")
	}
}
