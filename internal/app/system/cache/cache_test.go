package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	return New(srv.Addr(), "", 0, time.Minute)
}

func TestNew_EmptyAddrDisablesCache(t *testing.T) {
	if c := New("", "", 0, time.Minute); c != nil {
		t.Error("New with empty addr should return nil")
	}
}

func TestNilCache_IsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out string
	ok, err := c.Get(ctx, "k", &out)
	if err != nil || ok {
		t.Errorf("Get on nil cache = (%v, %v), want (false, nil)", ok, err)
	}
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Errorf("Set on nil cache error = %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Errorf("Del on nil cache error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache error = %v", err)
	}
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type hotel struct {
		Name string `json:"name"`
		City string `json:"city"`
	}

	in := []hotel{{Name: "Grand Plaza", City: "Dubai"}}
	if err := c.Set(ctx, "hotels:list", in); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var out []hotel
	ok, err := c.Get(ctx, "hotels:list", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() = miss, want hit")
	}
	if len(out) != 1 || out[0].Name != "Grand Plaza" {
		t.Errorf("Get() = %+v, want the stored slice", out)
	}
}

func TestGet_Miss(t *testing.T) {
	c := newTestCache(t)

	var out string
	ok, err := c.Get(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() = hit, want miss")
	}
}

func TestDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}

	var out string
	ok, _ := c.Get(ctx, "k", &out)
	if ok {
		t.Error("Get() after Del = hit, want miss")
	}
}
