// Package cache remembers which files were already in canonical form so
// batch reruns can skip them. Paths get stable uint32 ids in a SQLite
// table; the set of known-clean ids is kept as a roaring bitmap and
// persisted as one blob, keyed by the configuration hash, so changing
// the configuration invalidates every entry at once.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY,
	path TEXT UNIQUE NOT NULL,
	hash TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value BLOB
);
`

// Cache is a single-run handle: load once, consult during the run,
// flush once at the end.
type Cache struct {
	db         *sql.DB
	configHash string

	mu     sync.Mutex
	ids    map[string]uint32 // path → file id
	hashes map[uint32]string // id → content hash at last flush
	clean  *roaring.Bitmap   // ids known canonical under configHash
	nextID uint32
	dirty  bool
}

// Open opens (or creates) the cache database and loads the state for
// the given configuration hash. A hash mismatch starts an empty clean
// set; file ids survive so paths keep stable identities.
func Open(dbPath, configHash string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	c := &Cache{
		db:         db,
		configHash: configHash,
		ids:        make(map[string]uint32),
		hashes:     make(map[uint32]string),
		clean:      roaring.New(),
		nextID:     1,
	}
	if err := c.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) load() error {
	rows, err := c.db.Query(`SELECT id, path, hash FROM files`)
	if err != nil {
		return fmt.Errorf("load cache files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uint32
		var path, hash string
		if err := rows.Scan(&id, &path, &hash); err != nil {
			return err
		}
		c.ids[path] = id
		c.hashes[id] = hash
		if id >= c.nextID {
			c.nextID = id + 1
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var stored string
	err = c.db.QueryRow(`SELECT value FROM meta WHERE key = 'config_hash'`).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cache meta: %w", err)
	}
	if stored != c.configHash {
		return nil // different config: empty clean set
	}

	var blob []byte
	err = c.db.QueryRow(`SELECT value FROM meta WHERE key = 'clean_set'`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load clean set: %w", err)
	}
	if _, err := c.clean.FromBuffer(blob); err != nil {
		// corrupt bitmap: treat everything as unknown
		c.clean = roaring.New()
	}
	return nil
}

// HashContent fingerprints file content.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsClean reports whether the file with this content is already known
// canonical under the current configuration.
func (c *Cache) IsClean(path, contentHash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.ids[path]
	if !ok {
		return false
	}
	return c.hashes[id] == contentHash && c.clean.Contains(id)
}

// MarkClean records that the file now holds canonical content.
func (c *Cache) MarkClean(path, contentHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.ids[path]
	if !ok {
		id = c.nextID
		c.nextID++
		c.ids[path] = id
	}
	c.hashes[id] = contentHash
	c.clean.Add(id)
	c.dirty = true
}

// Invalidate drops a file from the clean set, e.g. after a failed write.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.ids[path]; ok {
		c.clean.Remove(id)
		c.dirty = true
	}
}

// Flush writes the file table and the clean bitmap in one transaction.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache flush: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO files (id, path, hash) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for path, id := range c.ids {
		if _, err := stmt.Exec(id, path, c.hashes[id]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("flush cache row %s: %w", path, err)
		}
	}

	blob, err := c.clean.ToBytes()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("serialize clean set: %w", err)
	}
	for key, value := range map[string][]byte{
		"config_hash": []byte(c.configHash),
		"clean_set":   blob,
	} {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("flush cache meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache flush: %w", err)
	}
	c.dirty = false
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
