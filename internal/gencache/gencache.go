// Package gencache хранит вывод полного запуска генераторов на диске, чтобы
// повторный запуск над неизменёнными входами отдавал артефакты без работы.
package gencache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/gen"
	"quill/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest — sha256 входов запуска.
type Digest [32]byte

// DiskCache хранит слитые артефакты по дайджесту входов на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores a cached merged artifact list.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Generators that produced the run, in registration order
	GeneratorNames []string

	// Merged artifacts in deterministic order
	HintNames []string
	Contents  []string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "runs".
	return filepath.Join(c.dir, "runs", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err = os.Remove(f.Name()); err != nil {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	enc := msgpack.NewEncoder(f)
	err = enc.Encode(payload)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		// Старый формат — как будто записи нет.
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим в фоне
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// RunKey вычисляет дайджест входов запуска: хэши исходников, additional texts
// и имена генераторов в порядке регистрации.
func RunKey(fileSet *source.FileSet, texts []gen.AdditionalText, generatorNames []string) Digest {
	h := sha256.New()
	if fileSet != nil {
		for i := 0; i < fileSet.Len(); i++ {
			file := fileSet.Get(source.FileID(i))
			h.Write(file.Hash[:])
		}
	}
	for _, t := range texts {
		h.Write([]byte(t.Path))
		h.Write([]byte{0})
		h.Write([]byte(t.Content))
		h.Write([]byte{0})
	}
	for _, name := range generatorNames {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// ToPayload converts a merged artifact list for caching.
func ToPayload(generatorNames []string, merged []gen.GeneratedSource) *DiskPayload {
	payload := &DiskPayload{
		Schema:         diskCacheSchemaVersion,
		GeneratorNames: generatorNames,
	}
	payload.HintNames = make([]string, len(merged))
	payload.Contents = make([]string, len(merged))
	for i, art := range merged {
		payload.HintNames[i] = art.HintName
		payload.Contents[i] = art.Content
	}
	return payload
}

// FromPayload restores the merged artifact list.
func FromPayload(payload *DiskPayload) []gen.GeneratedSource {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	merged := make([]gen.GeneratedSource, len(payload.HintNames))
	for i := range payload.HintNames {
		merged[i] = gen.GeneratedSource{
			HintName: payload.HintNames[i],
			Content:  payload.Contents[i],
		}
	}
	return merged
}
