package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLocalStorage_PutGet(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	ctx := context.Background()

	key := "observations/dev-1/20240101_120000_spectrum.jpg"
	location, err := store.Put(ctx, key, []byte("payload"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(location, "file://") || !strings.HasSuffix(location, key) {
		t.Errorf("Unexpected location %s", location)
	}
	if resolved, err := store.Location(key); err != nil || resolved != location {
		t.Errorf("Expected Location to return %s, got %s (%v)", location, resolved, err)
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Expected payload, got %q", data)
	}
}

func TestLocalStorage_Errors(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing.jpg"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Expected ErrBlobNotFound, got %v", err)
	}

	for _, key := range []string{"../outside.jpg", "a/../../outside.jpg", ""} {
		if _, err := store.Put(ctx, key, []byte("x"), ""); err == nil {
			t.Errorf("Expected key %q to be rejected", key)
		}
		if _, err := store.Location(key); err == nil {
			t.Errorf("Expected location of key %q to be rejected", key)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := store.Get(cancelled, "missing.jpg"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
