package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalPutOpenDelete(t *testing.T) {
	provider, err := NewLocal(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	if err := provider.Put(ctx, "photo.jpg", bytes.NewReader([]byte("jpeg bytes"))); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := provider.Open(ctx, "photo.jpg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Fatalf("object content = %q", data)
	}

	if err := provider.Delete(ctx, "photo.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := provider.Open(ctx, "photo.jpg"); err == nil {
		t.Fatal("expected open to fail after delete")
	}
	if err := provider.Delete(ctx, "photo.jpg"); err != nil {
		t.Fatalf("Delete of missing object should be a no-op: %v", err)
	}
}

func TestLocalNestedKeys(t *testing.T) {
	provider, err := NewLocal(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	if err := provider.Put(ctx, "small/photo.jpg", strings.NewReader("variant")); err != nil {
		t.Fatalf("Put nested: %v", err)
	}
	rc, err := provider.Open(ctx, "small/photo.jpg")
	if err != nil {
		t.Fatalf("Open nested: %v", err)
	}
	_ = rc.Close()
}

func TestLocalRejectsTraversal(t *testing.T) {
	provider, err := NewLocal(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"../escape", "/etc/passwd", "a/../../b", ""} {
		if err := provider.Put(ctx, key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected Put(%q) to be rejected", key)
		}
	}
}

func TestLocalAccessPath(t *testing.T) {
	provider, err := NewLocal(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if got := provider.AccessPath("photo.jpg"); got != "/media/photo.jpg" {
		t.Fatalf("AccessPath = %q", got)
	}
	if got := provider.AccessPath("small/photo.jpg"); got != "/media/small/photo.jpg" {
		t.Fatalf("AccessPath nested = %q", got)
	}
}
