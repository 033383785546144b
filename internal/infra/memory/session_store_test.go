package memory

import (
	"context"
	"testing"
	"time"

	"fishwrapper-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if err := store.PutSession(ctx, "tok", "zane", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	username, err := store.GetSession(ctx, "tok")
	if err != nil || username != "zane" {
		t.Fatalf("expected zane, got %q %v", username, err)
	}

	if err := store.DeleteSession(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetSession(ctx, "tok"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	store := NewSessionStoreWithClock(func() time.Time { return now })

	if err := store.PutSession(ctx, "tok", "zane", time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, err := store.GetSession(ctx, "tok"); err != nil {
		t.Fatalf("expected live session, got %v", err)
	}

	now = now.Add(31 * time.Second)
	if _, err := store.GetSession(ctx, "tok"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}
