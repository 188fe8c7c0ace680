package routes

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
)

// Table is the in-process routing layer built from the active artifact. It
// satisfies Reloader: Reset drops the built table, Reload parses the active
// artifact and swaps it in, and Finished reports whether a table is built.
type Table struct {
	path    string
	current atomic.Pointer[Config]
}

func NewTable(path string) *Table {
	return &Table{path: path}
}

var _ Reloader = &Table{}

// Current returns the built routing configuration, or nil when none is
// loaded.
func (t *Table) Current() *Config {
	return t.current.Load()
}

func (t *Table) Reset() {
	t.current.Store(nil)
}

func (t *Table) Reload(ctx context.Context) error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return goerr.Wrap(err, "failed to read routes artifact", goerr.V("path", t.path))
	}

	cfg, err := Parse(data)
	if err != nil {
		return goerr.Wrap(err, "failed to build routing table", goerr.V("path", t.path))
	}

	t.current.Store(cfg)
	return nil
}

func (t *Table) Finished(ctx context.Context) (bool, error) {
	return t.current.Load() != nil, nil
}
