package cache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const pageSuffix = ".page"

// DiskCache stores one file per page under dir, sharded by the last two
// characters of the key. Each file is an RFC 3339 expiry line followed by
// the raw page bytes.
type DiskCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl, now: time.Now}
}

// Get returns the page for key; expired or corrupt files are removed
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	expires, body, err := decodePage(raw)
	if err != nil || !c.now().Before(expires) {
		_ = os.Remove(path)
		return nil, false
	}
	return body, true
}

// Set writes the page atomically. A zero ttl uses the cache default.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := bufio.NewWriter(tmp)
	_, _ = w.WriteString(c.now().Add(ttl).UTC().Format(time.RFC3339))
	_ = w.WriteByte('\n')
	_, _ = w.Write(value)
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the page for key; a missing file is not an error
func (c *DiskCache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes the whole cache directory
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Prune deletes expired and unreadable pages and reports how many went
func (c *DiskCache) Prune() (int, error) {
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, pageSuffix) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err == nil {
			var expires time.Time
			if expires, _, err = decodePage(raw); err == nil && c.now().Before(expires) {
				return nil
			}
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

func (c *DiskCache) path(key string) string {
	shard := "00"
	if len(key) >= 2 {
		shard = key[len(key)-2:]
	}
	return filepath.Join(c.dir, shard, key+pageSuffix)
}

func decodePage(raw []byte) (time.Time, []byte, error) {
	header, body, ok := bytes.Cut(raw, []byte{'\n'})
	if !ok {
		return time.Time{}, nil, errors.New("missing expiry header")
	}
	expires, err := time.Parse(time.RFC3339, string(header))
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("bad expiry header: %w", err)
	}
	return expires, body, nil
}
