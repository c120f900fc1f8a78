package cache

import (
	"context"
	"errors"
	"testing"
)

func TestKeys(t *testing.T) {
	if DemoKey() != "fingemini_demo_data" {
		t.Errorf("DemoKey() = %q", DemoKey())
	}
	if got := UserKey("uid-123"); got != "fingemini_uid-123" {
		t.Errorf("UserKey(uid-123) = %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Put(ctx, "k", []byte(`{"accounts":[]}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"accounts":[]}` {
		t.Errorf("Get returned %q", got)
	}

	// Overwrite replaces the payload.
	if err := store.Put(ctx, "k", []byte(`{}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, _ = store.Get(ctx, "k")
	if string(got) != `{}` {
		t.Errorf("Get after overwrite returned %q", got)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	payload := []byte("original")
	if err := store.Put(ctx, "k", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	payload[0] = 'X'

	got, _ := store.Get(ctx, "k")
	if string(got) != "original" {
		t.Error("Put must copy the caller's payload")
	}

	got[0] = 'Y'
	again, _ := store.Get(ctx, "k")
	if string(again) != "original" {
		t.Error("Get must return a copy of the stored payload")
	}
}
