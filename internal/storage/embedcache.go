package storage

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite"
)

// EmbedCache stores embedding vectors keyed by provider, model and input text
// so knowledge-base rebuilds do not re-embed unchanged values.
type EmbedCache interface {
	Get(provider, model, text string) ([]float32, bool)
	Put(provider, model, text string, vec []float32) error
	Close() error
}

type SQLiteCache struct {
	db *sql.DB
}

func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	c := &SQLiteCache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) init() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS embeddings (
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		text TEXT NOT NULL,
		vector BLOB NOT NULL,
		PRIMARY KEY (provider, model, text)
	)`)
	if err != nil {
		return fmt.Errorf("init embedding cache: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Get(provider, model, text string) ([]float32, bool) {
	var blob []byte
	err := c.db.QueryRow(
		`SELECT vector FROM embeddings WHERE provider = ? AND model = ? AND text = ?`,
		provider, model, text,
	).Scan(&blob)
	if err != nil {
		return nil, false
	}
	return decodeVector(blob), true
}

func (c *SQLiteCache) Put(provider, model, text string, vec []float32) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO embeddings (provider, model, text, vector) VALUES (?, ?, ?, ?)`,
		provider, model, text, encodeVector(vec),
	)
	if err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func encodeVector(vec []float32) []byte {
	out := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeVector(blob []byte) []float32 {
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return out
}

// MemoryCache is an in-process EmbedCache for tests and cache-less runs.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string][]float32
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string][]float32)}
}

func memKey(provider, model, text string) string {
	return provider + "\x00" + model + "\x00" + text
}

func (c *MemoryCache) Get(provider, model, text string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[memKey(provider, model, text)]
	return v, ok
}

func (c *MemoryCache) Put(provider, model, text string, vec []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[memKey(provider, model, text)] = vec
	return nil
}

func (c *MemoryCache) Close() error { return nil }
