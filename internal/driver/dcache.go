package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"dust/internal/diag"
	"dust/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит диагностики последней проверки файла по ключу CacheKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what a cache entry holds. Spans are stored as offsets: every
// span of a single-file diagnostic points into that same file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path    string
	Hash    Digest // content hash at the time of the check
	Dropped int
	Diags   []CachedDiagnostic
}

// CachedDiagnostic is a file-independent form of diag.Diagnostic.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
	Fixes    []CachedFix
}

type CachedNote struct {
	Start, End uint32
	Msg        string
}

type CachedFix struct {
	Title string
	Edits []CachedEdit
}

type CachedEdit struct {
	Start, End uint32
	NewText    string
}

// OpenDiskCache initializes the cache under dir, or under the user cache
// directory ($XDG_CACHE_HOME/app, ~/.cache/app) when dir is empty.
func OpenDiskCache(app, dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "diags", чтобы DropAll не трогал чужое
	return filepath.Join(c.dir, "diags", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry is (false, nil); an entry written by
// another schema is treated as missing.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
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

	dir := filepath.Join(c.dir, "diags")
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	// переименуем каталог, чтобы параллельный Get не увидел полуудалённое состояние
	old := dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// bagToPayload converts the diagnostics of one file into a cache payload.
func bagToPayload(path string, hash Digest, bag *diag.Bag) *DiskPayload {
	payload := &DiskPayload{
		Path:    path,
		Hash:    hash,
		Dropped: bag.Dropped(),
		Diags:   make([]CachedDiagnostic, 0, bag.Len()),
	}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, fix := range d.Fixes {
			cf := CachedFix{Title: fix.Title}
			for _, e := range fix.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diags = append(payload.Diags, cd)
	}
	return payload
}

// payloadToBag restores diagnostics against file, which must hold the same
// content the payload was produced from.
func payloadToBag(payload *DiskPayload, file source.SourceFile, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	span := func(start, end uint32) source.Span {
		return source.Span{File: file, Start: start, End: end}
	}
	for _, cd := range payload.Diags {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(span(n.Start, n.End), n.Msg)
		}
		for _, cf := range cd.Fixes {
			edits := make([]diag.FixEdit, 0, len(cf.Edits))
			for _, e := range cf.Edits {
				edits = append(edits, diag.FixEdit{Span: span(e.Start, e.End), NewText: e.NewText})
			}
			d = d.WithFix(cf.Title, edits...)
		}
		bag.Add(d)
	}
	bag.AddDropped(payload.Dropped)
	return bag
}
