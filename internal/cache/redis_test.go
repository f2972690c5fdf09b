package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type sample struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, time.Minute), mr
}

func TestRedis_SetGet(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	var got sample
	hit, err := c.Get(ctx, "stats:0:event:1", &got)
	if err != nil || hit {
		t.Fatalf("Get() on empty cache = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "stats:0:event:1", sample{Name: "Fair", Total: 9}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	hit, err = c.Get(ctx, "stats:0:event:1", &got)
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v; want hit", hit, err)
	}
	if got.Name != "Fair" || got.Total != 9 {
		t.Errorf("Get() decoded %+v", got)
	}
}

func TestRedis_InvalidateBumpsGeneration(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	if err != nil || gen != 0 {
		t.Fatalf("Generation() = %d, %v; want 0", gen, err)
	}
	for i := 0; i < 2; i++ {
		if err := c.Invalidate(ctx); err != nil {
			t.Fatalf("Invalidate() error = %v", err)
		}
	}
	gen, err = c.Generation(ctx)
	if err != nil || gen != 2 {
		t.Errorf("Generation() = %d, %v; want 2", gen, err)
	}
}

func TestRedis_TTL(t *testing.T) {
	c, mr := newTestRedis(t)
	if err := c.Set(context.Background(), "k", sample{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("event-inventory:k"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	var got sample
	if hit, _ := c.Get(context.Background(), "k", &got); hit {
		t.Error("entry still cached after TTL")
	}
}

func TestRedis_GetUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRedis(client, 0)

	var got sample
	if _, err := c.Get(context.Background(), "k", &got); err == nil {
		t.Error("Get() against unreachable redis error = nil, want error")
	}
	if c.ttl != 5*time.Minute {
		t.Errorf("default ttl = %v", c.ttl)
	}
}
