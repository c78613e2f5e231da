package db

import (
	"context"
	"testing"

	"github.com/emiliocantu/stockroom-backend/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error when DSN is missing")
	}
}

func TestNewSQLiteInMemory(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{DSN: "file::memory:?cache=shared", Driver: "sqlite"}, nil)
	if err != nil {
		t.Fatalf("unexpected error opening sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
