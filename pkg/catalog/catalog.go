/*
Package catalog loads canned completion lists from disk.

A catalog directory holds one list per file. JSON files carry LSP completion
items, either a bare array or a CompletionList object; .msgpack files carry
the compact Item form. The file name without extension names the list, so
rust.json is the list "rust".
*/
package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/wordpop/pkg/candidate"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownFormat is returned for files that are neither JSON nor msgpack.
var ErrUnknownFormat = errors.New("unknown catalog format")

// Catalog is a set of named candidate lists. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	dir   string
	lists map[string][]candidate.Candidate
}

func New() *Catalog {
	return &Catalog{lists: make(map[string][]candidate.Candidate)}
}

// LoadDir loads every catalog file in dir. Files that fail are logged and skipped;
// the combined error is returned alongside the catalog.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog dir %s", dir)
	}
	c := New()
	c.dir = dir

	var errs error
	for _, e := range entries {
		if e.IsDir() || !IsCatalogFile(e.Name()) {
			continue
		}
		if err := c.LoadFile(filepath.Join(dir, e.Name())); err != nil {
			log.Warnf("Skipping catalog %s: %v", e.Name(), err)
			errs = errors.CombineErrors(errs, err)
		}
	}
	log.Debugf("Loaded %d catalog lists from %s", c.Len(), dir)
	return c, errs
}

// LoadFile (re)loads a single file into the catalog under its list name.
func (c *Catalog) LoadFile(path string) error {
	items, err := Load(path)
	if err != nil {
		return err
	}
	c.Set(ListName(path), items)
	return nil
}

// Remove drops the list that path was loaded into.
func (c *Catalog) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, ListName(path))
}

func (c *Catalog) Set(name string, items []candidate.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[name] = items
}

// Get returns the named list. The slice is shared and must not be modified.
func (c *Catalog) Get(name string) ([]candidate.Candidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.lists[name]
	return items, ok
}

// Names lists the loaded lists in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.lists))
	for name := range c.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lists)
}

// Dir is the directory the catalog was loaded from, if any.
func (c *Catalog) Dir() string {
	return c.dir
}

// ListName is the list a catalog file loads into.
func ListName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsCatalogFile reports whether name has a catalog extension.
func IsCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".msgpack", ".mpk":
		return true
	}
	return false
}

// Load reads one catalog file.
func Load(path string) ([]candidate.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		items, err := DecodeJSON(data)
		return items, errors.Wrapf(err, "decode %s", path)
	case ".msgpack", ".mpk":
		items, err := DecodeMsgpack(data)
		return items, errors.Wrapf(err, "decode %s", path)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
}

// DecodeJSON accepts an array of LSP completion items or a CompletionList.
// Items that fail to convert are dropped and reported in the error.
func DecodeJSON(data []byte) ([]candidate.Candidate, error) {
	var items []json.RawMessage
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(err, "completion item array")
		}
	} else {
		var list struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, errors.Wrap(err, "completion list")
		}
		items = list.Items
	}
	return candidate.FromJSONList(items)
}

// DecodeMsgpack reads an array of Items.
func DecodeMsgpack(data []byte) ([]candidate.Candidate, error) {
	var items []Item
	if err := msgpack.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "item array")
	}
	return Candidates(items), nil
}

// EncodeMsgpack writes candidates in the .msgpack catalog form.
func EncodeMsgpack(items []candidate.Candidate) ([]byte, error) {
	wire := make([]Item, len(items))
	for i, c := range items {
		wire[i] = ItemOf(c)
	}
	return msgpack.Marshal(wire)
}
