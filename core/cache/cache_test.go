package cache

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/OpenITI/oimdp/core/errors"
	"github.com/OpenITI/oimdp/core/parser"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if v, ok := cache.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v; want 3, true", v, ok)
	}
	if _, ok := cache.Get("d"); ok {
		t.Error("Get(d) should return false")
	}
	if n := cache.Len(); n != 3 {
		t.Errorf("Len() = %d; want 3", n)
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")    // "b" is now least recently used
	cache.Put("c", 3) // evicts "b"

	if _, ok := cache.Get("b"); ok {
		t.Error("Get(b) should return false after eviction")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("Get(a) should survive eviction")
	}
}

func TestLRUCache_UpdateAndRemove(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("a", 10)
	if v, _ := cache.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d; want 10", v)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d; want 1", cache.Len())
	}

	cache.Remove("a")
	cache.Remove("missing")
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Remove; want 0", cache.Len())
	}
	if cache.RemoveOldest() {
		t.Error("RemoveOldest on empty cache returned true")
	}
}

func TestLRUCache_TTL(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3, TTL: 50 * time.Millisecond})

	cache.Put("a", 1)
	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after TTL expiration")
	}
}

func TestLRUCache_Stats(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")
	cache.Get("b")
	cache.Get("c")
	cache.Get("d")
	cache.Put("c", 3) // evicts "a"

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 2 || stats.Evictions != 1 {
		t.Errorf("Stats = %+v; want 2 hits, 2 misses, 1 eviction", stats)
	}
	if stats.Size != 2 || stats.MaxSize != 2 {
		t.Errorf("Size = %d, MaxSize = %d; want 2, 2", stats.Size, stats.MaxSize)
	}
}

func TestLRUCache_OnEvict(t *testing.T) {
	var evicted []string
	cache := NewLRUCache[string, int](Config{
		MaxSize: 2,
		OnEvict: func(key, value any) {
			evicted = append(evicted, key.(string))
		},
	})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)
	cache.Clear()

	want := []string{"a", "c", "b"}
	if strings.Join(evicted, ",") != strings.Join(want, ",") {
		t.Errorf("evicted = %v; want %v", evicted, want)
	}
}

func TestNewLRUCache_NegativeMaxSize(t *testing.T) {
	cache := NewLRUCache[int, int](Config{MaxSize: -1})
	for i := 0; i < 50; i++ {
		cache.Put(i, i)
	}
	if cache.Len() != 50 {
		t.Errorf("Len() = %d; want 50 for unlimited cache", cache.Len())
	}
}

func TestLRUCache_Concurrency(t *testing.T) {
	cache := NewLRUCache[int, int](Config{MaxSize: 100})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Put(id*100+j, j)
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Get(id*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n > 100 {
		t.Errorf("Len() = %d; want <= 100", n)
	}
}

func text(body string) string {
	return "######OpenITI#\n# " + body + "\n"
}

func TestDocumentCache_Parse(t *testing.T) {
	c := NewDocumentCache(10, 0)

	first, hit, err := c.Parse(text("qala"))
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first Parse reported a hit")
	}
	second, hit, err := c.Parse(text("qala"))
	if err != nil {
		t.Fatal(err)
	}
	if !hit || second != first {
		t.Error("second Parse of same text did not hit")
	}

	if _, _, err := c.Parse("no sentinel"); !errors.Is(err, errors.ErrFormat) {
		t.Errorf("Parse error = %v, want ErrFormat", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d; failed parses must not be cached", c.Len())
	}
}

func TestDocumentCache_ByteLimit(t *testing.T) {
	a, b, cText := text("aaaa"), text("bbbb"), text("cccc")
	limit := int64(len(a) + len(b))
	c := NewDocumentCache(0, limit)

	for _, s := range []string{a, b, cText} {
		if _, _, err := c.Parse(s); err != nil {
			t.Fatal(err)
		}
	}

	if _, ok := c.Get(a); ok {
		t.Error("oldest document not evicted at byte limit")
	}
	if _, ok := c.Get(cText); !ok {
		t.Error("newest document missing")
	}
	stats := c.Stats()
	if stats.TotalBytes > limit {
		t.Errorf("TotalBytes = %d; want <= %d", stats.TotalBytes, limit)
	}
	if stats.TotalBytes != int64(len(b)+len(cText)) {
		t.Errorf("TotalBytes = %d; want %d", stats.TotalBytes, len(b)+len(cText))
	}

	c.Clear()
	if s := c.Stats(); s.TotalBytes != 0 || s.Size != 0 {
		t.Errorf("Stats after Clear = %+v", s)
	}
}

func TestDocumentCache_TooLarge(t *testing.T) {
	c := NewDocumentCache(0, 4)
	doc, err := parser.Parse(text("far too long"))
	if err != nil {
		t.Fatal(err)
	}
	c.Put(doc)
	if c.Len() != 0 {
		t.Error("document above byte limit was cached")
	}
}

func TestDocumentCache_Replace(t *testing.T) {
	c := NewDocumentCache(0, 0)
	s := text("same")
	doc, err := parser.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	c.Put(doc)
	c.Put(doc)
	if got := c.Stats().TotalBytes; got != int64(len(s)) {
		t.Errorf("TotalBytes = %d after re-put; want %d", got, len(s))
	}
}

func TestKey(t *testing.T) {
	if Key("a") == Key("b") {
		t.Error("distinct texts share a key")
	}
	if len(Key("")) != 64 {
		t.Errorf("Key length = %d; want 64 hex chars", len(Key("")))
	}
}
