package routes_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/service/routes"
)

func TestTableReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "routes.toml")
	table := routes.NewTable(path)

	gt.B(t, table.Current() == nil).True()

	finished, err := table.Finished(ctx)
	gt.NoError(t, err)
	gt.B(t, finished).False()

	gt.Error(t, table.Reload(ctx))

	gt.NoError(t, os.WriteFile(path, []byte(validArtifact), 0o644))
	gt.NoError(t, table.Reload(ctx))

	cfg := table.Current()
	gt.B(t, cfg == nil).False()

	finished, err = table.Finished(ctx)
	gt.NoError(t, err)
	gt.B(t, finished).True()

	table.Reset()
	gt.B(t, table.Current() == nil).True()
}

func TestTableReloadRejectsMalformedArtifact(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "routes.toml")
	table := routes.NewTable(path)

	gt.NoError(t, os.WriteFile(path, []byte("not toml {{{"), 0o644))
	gt.Error(t, table.Reload(ctx))
	gt.B(t, table.Current() == nil).True()
}
