package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mamadbah2/foodops/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Driver: "memory"}},
		{name: "sqlite", cfg: config.StorageConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "nested", "foodops.db")}},
		{name: "unknown", cfg: config.StorageConfig{Driver: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err != nil {
				return
			}
			defer store.Close()
			if err := store.Ping(context.Background()); err != nil {
				t.Fatalf("ping: %v", err)
			}
		})
	}
}
