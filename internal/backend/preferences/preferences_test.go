package preferences

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	sqliteStore, err := NewStore(ctx, Config{Type: "sqlite", ConnectionString: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore(sqlite) error: %v", err)
	}

	mr := miniredis.RunT(t)
	redisStore, err := NewStore(ctx, Config{Type: "redis", ConnectionString: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewStore(redis) error: %v", err)
	}

	boltStore, err := NewStore(ctx, Config{Type: "bolt", ConnectionString: filepath.Join(t.TempDir(), "prefs.db")})
	if err != nil {
		t.Fatalf("NewStore(bolt) error: %v", err)
	}

	memoryStore, err := NewStore(ctx, Config{Type: "memory"})
	if err != nil {
		t.Fatalf("NewStore(memory) error: %v", err)
	}

	stores := map[string]Store{
		"sqlite": sqliteStore,
		"redis":  redisStore,
		"bolt":   boltStore,
		"memory": memoryStore,
	}
	t.Cleanup(func() {
		for _, store := range stores {
			_ = store.Close()
		}
	})
	return stores
}

func TestStore_GetAbsent(t *testing.T) {
	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := store.Get(context.Background(), "photosGallery")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if ok || value != "" {
				t.Fatalf("expected absent key, got %q (ok=%v)", value, ok)
			}
		})
	}
}

func TestStore_SetGetOverwrite(t *testing.T) {
	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Set(ctx, "photosGallery", `[{"filepath":"1.jpeg"}]`); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			if err := store.Set(ctx, "photosGallery", `[]`); err != nil {
				t.Fatalf("Set (overwrite) error: %v", err)
			}
			value, ok, err := store.Get(ctx, "photosGallery")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if !ok || value != "[]" {
				t.Fatalf("expected [], got %q (ok=%v)", value, ok)
			}
		})
	}
}

func TestStore_EmptyValueIsPresent(t *testing.T) {
	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Set(ctx, "k", ""); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			_, ok, err := store.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if !ok {
				t.Fatal("expected empty value to be reported as present")
			}
		})
	}
}

func TestRedisStore_Namespace(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, "frame-1")
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Set(context.Background(), "photosGallery", "[]"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := mr.Get("frame-1:photosGallery")
	if err != nil {
		t.Fatalf("expected namespaced key in redis: %v", err)
	}
	if got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(context.Background(), "redis://"+addr, ""); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

func TestNewStore_Unsupported(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{Type: "etcd"}); err == nil {
		t.Fatal("expected error for unsupported preferences type")
	}
}
