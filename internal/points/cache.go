package points

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"

	"github.com/mmeshcher/receipt-processor/internal/model"
)

// DefaultCacheSize задаёт ёмкость кэша баллов по умолчанию.
const DefaultCacheSize = 1000

// ScoreFunc вычисляет баллы за чек.
type ScoreFunc func(model.Receipt) int64

// Stats содержит статистику обращений к кэшу.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Cache запоминает баллы, рассчитанные для сериализованного представления чека.
// Вытеснение выполняется по принципу LRU; ёмкость 0 отключает ограничение.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache
	group singleflight.Group
	score ScoreFunc

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache создаёт кэш указанной ёмкости. Если score равен nil, используется Calculate.
func NewCache(size int, score ScoreFunc) *Cache {
	if size < 0 {
		size = 0
	}
	if score == nil {
		score = Calculate
	}

	return &Cache{
		lru:   lru.New(size),
		score: score,
	}
}

// Key возвращает каноническое представление чека, используемое как ключ кэша.
func Key(r model.Receipt) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Points возвращает баллы за чек, рассчитывая их только при промахе кэша.
func (c *Cache) Points(r model.Receipt) int64 {
	key, err := Key(r)
	if err != nil {
		// NaN и Inf не сериализуются, такие чеки считаются без кэша
		c.misses.Add(1)
		return c.score(r)
	}

	if v, ok := c.get(key); ok {
		c.hits.Add(1)
		return v
	}

	computed := false
	v, _, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.get(key); ok {
			return v, nil
		}

		computed = true
		p := c.score(r)

		c.mu.Lock()
		c.lru.Add(key, p)
		c.mu.Unlock()

		return p, nil
	})

	if computed {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}

	return v.(int64)
}

func (c *Cache) get(key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// Stats возвращает текущую статистику кэша.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := c.lru.Len()
	c.mu.Unlock()

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: entries,
	}
}
