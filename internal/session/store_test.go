package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type testSessionConfig struct{}

func (testSessionConfig) GetRedisURL() string             { return "" }
func (testSessionConfig) GetSessionCookieName() string    { return "test_sid" }
func (testSessionConfig) GetSessionTTL() time.Duration    { return time.Hour }
func (testSessionConfig) GetSessionCookieSecure() bool    { return false }

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, testSessionConfig{}), mr
}

func TestSessionSetGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	sess := store.Open("abc")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := sess.Set(ctx, "data", payload{Name: "x", Count: 3}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	found, err := sess.Get(ctx, "data", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected value to be present")
	}
	if got.Name != "x" || got.Count != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSessionGetMissing(t *testing.T) {
	store, _ := newTestStore(t)
	sess := store.Open("abc")

	var dest string
	found, err := sess.Get(context.Background(), "missing", &dest)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected missing key")
	}
}

func TestSessionIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Open("a").Set(ctx, "k", "first"); err != nil {
		t.Fatalf("set: %v", err)
	}

	var dest string
	found, err := store.Open("b").Get(ctx, "k", &dest)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("sessions must not share state")
	}
}

func TestSessionTTLRefreshOnSet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	sess := store.Open("abc")

	if err := sess.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("session:abc"); ttl != time.Hour {
		t.Fatalf("expected TTL %v, got %v", time.Hour, ttl)
	}
}

func TestSessionPopString(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	sess := store.Open("abc")

	if err := sess.Set(ctx, "flash", "Required field"); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := sess.PopString(ctx, "flash")
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if value != "Required field" {
		t.Fatalf("expected flash value, got %q", value)
	}

	again, err := sess.PopString(ctx, "flash")
	if err != nil {
		t.Fatalf("second pop: %v", err)
	}
	if again != "" {
		t.Fatalf("flash must be consumed, got %q", again)
	}
}
