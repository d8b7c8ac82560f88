package flags

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, slog.Default(), WithKey("test:flags"))
}

func TestRedisStoreRoundTrip(t *testing.T) {
	r := newTestRedis(t)

	if err := r.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{name: "bool", value: true, want: true},
		// JSON decoding turns numbers into float64.
		{name: "number", value: 50, want: float64(50)},
		{name: "string", value: "riverdale", want: "riverdale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Set("flag:"+tt.name, tt.value); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := r.Get("flag:" + tt.name)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !ok || got != tt.want {
				t.Errorf("Get = %v (%T), %v; want %v", got, got, ok, tt.want)
			}
		})
	}
}

func TestRedisStoreMissingFlag(t *testing.T) {
	r := newTestRedis(t)

	v, ok, err := r.Get("never-set")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != nil {
		t.Errorf("Get = %v, %v; want nil, false", v, ok)
	}
}

func TestRedisStoreOverwrite(t *testing.T) {
	r := newTestRedis(t)

	if err := r.Set("phase", "one"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := r.Set("phase", "two"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _, _ := r.Get("phase")
	if v != "two" {
		t.Errorf("phase = %v, want two", v)
	}
}
