package cache

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client, skipping when unavailable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected string
	}{
		{
			name:     "endpoint only",
			key:      Key{Endpoint: "/collection/some-slug/stats"},
			expected: "osea:collection/some-slug/stats",
		},
		{
			name: "query params sorted",
			key: Key{
				Endpoint: "/assets",
				Query: url.Values{
					"limit":      {"50"},
					"collection": {"some-slug"},
					"cursor":     {"abc"},
				},
			},
			expected: "osea:assets:collection=some-slug:cursor=abc:limit=50",
		},
		{
			name:     "empty endpoint",
			key:      Key{},
			expected: "osea",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.expected {
				t.Errorf("Key.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKeyString_Deterministic(t *testing.T) {
	key := Key{
		Endpoint: "/events",
		Query: url.Values{
			"event_type":      {"successful"},
			"collection_slug": {"some-slug"},
			"limit":           {"300"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Fatalf("Key.String() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestManager_GetMiss(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient, time.Minute)

	_, err := manager.Get(context.Background(), Key{Endpoint: "/missing"})
	if err != ErrCacheMiss {
		t.Errorf("Get() on empty cache = %v, want ErrCacheMiss", err)
	}
}

func TestManager_SetThenGet(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient, time.Minute)
	ctx := context.Background()

	key := Key{Endpoint: "/assets", Query: url.Values{"collection": {"some-slug"}}}
	body := []byte(`{"next": null, "assets": []}`)

	if err := manager.Set(ctx, key, body); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("Get() = %q, want %q", got, body)
	}
}

func TestManager_EntryExpires(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient, 50*time.Millisecond)
	ctx := context.Background()

	key := Key{Endpoint: "/collection/some-slug/stats"}
	if err := manager.Set(ctx, key, []byte(`{}`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := manager.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("Get() after TTL = %v, want ErrCacheMiss", err)
	}
}
