package etl

import (
	"context"
	"fmt"
	"sync"
)

// ── Format ─────────────────────────────────────────────────
// A Format normalizes one kind of input into a Dataset.
// Implementations live in etl/formats/, one file per format.
// Dispatch is a tagged variant over the configured format name, not a
// branch on file extension: new formats register themselves here.

// Source describes where a dataset's raw data comes from.
type Source struct {
	Format string // "csv" | "xlsx" | "htmltable" | "database"
	URL    string // remote file formats; staged before normalizing

	// database format only
	Driver string // "mysql" | "postgres" | "sqlite"
	DSN    string
	Table  string
}

// Input is what a Format receives: the source description plus, for remote
// file formats, the path of the staged file.
type Input struct {
	Source Source
	Path   string
}

// Format is the interface every input format must implement.
type Format interface {
	// Name returns the format tag used in configuration.
	Name() string

	// Staged reports whether this format reads a staged file, i.e. whether
	// the pipeline must fetch Source.URL before calling Normalize.
	Staged() bool

	// Normalize parses the input into a Dataset named name.
	Normalize(ctx context.Context, name string, in Input) (*Dataset, error)
}

// ── Format Registry ────────────────────────────────────────
// Compile-time registration via init() in each format file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Format{}
)

// RegisterFormat registers a format by its name.
// Called from init() in each format implementation file.
func RegisterFormat(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f.Name()] = f
}

// GetFormat returns a registered format by name, or an error if not found.
func GetFormat(name string) (Format, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q", name)
	}
	return f, nil
}

// ListFormats returns the names of all registered formats.
func ListFormats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
