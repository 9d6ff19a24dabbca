package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/erazemk/najdeno/internal/config"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{Backend: config.BackendMemory}},
		{"sqlite", config.Config{Backend: config.BackendSQLite, DBPath: filepath.Join(t.TempDir(), "najdeno.sqlite3")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Open(ctx, &tt.cfg)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer st.Close()

			if err := st.Ping(ctx); err != nil {
				t.Fatalf("Ping: %v", err)
			}
			if _, err := st.CreateItem(ctx, sampleItem("Keys")); err != nil {
				t.Fatalf("CreateItem: %v", err)
			}
		})
	}
}

func TestOpenSQLiteKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Backend: config.BackendSQLite, DBPath: filepath.Join(t.TempDir(), "najdeno.sqlite3")}

	st, err := Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	secret, _ := st.JWTSecret(ctx)
	st.CreateItem(ctx, sampleItem("Keys"))
	st.Close()

	st, err = Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	items, err := st.ListItems(ctx, ItemFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected item to survive reopen, got %d", len(items))
	}
	if again, _ := st.JWTSecret(ctx); again != secret {
		t.Error("expected JWT secret to survive reopen")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{Backend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
