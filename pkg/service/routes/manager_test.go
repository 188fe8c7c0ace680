package routes_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/service/routes"
)

type stubReloader struct {
	resetCount  int
	reloadCount int
	reloadErr   error
	finishAfter int
	finishPolls int
}

func (s *stubReloader) Reset() {
	s.resetCount++
}

func (s *stubReloader) Reload(ctx context.Context) error {
	s.reloadCount++
	return s.reloadErr
}

func (s *stubReloader) Finished(ctx context.Context) (bool, error) {
	s.finishPolls++
	return s.finishPolls > s.finishAfter, nil
}

const validArtifact = `
[routes."/about/"]
template = "about"

[[collections]]
route = "/"
permalink = "/{slug}/"
template = "index"

[taxonomies]
tag = "/tag/{slug}/"
`

func writeActive(t *testing.T, content string) string {
	t.Helper()
	activePath := filepath.Join(t.TempDir(), "routes.toml")
	gt.NoError(t, os.WriteFile(activePath, []byte(content), 0o644))
	return activePath
}

func TestInstallSuccess(t *testing.T) {
	activePath := writeActive(t, validArtifact)
	reloader := &stubReloader{}
	mgr := routes.NewManager(activePath, reloader,
		routes.WithPollInterval(time.Millisecond))

	uploaded := []byte(validArtifact + "\nauthor = \"/author/{slug}/\"\n")
	gt.NoError(t, mgr.Install(context.Background(), uploaded))

	active, err := os.ReadFile(activePath)
	gt.NoError(t, err)
	gt.B(t, bytes.Equal(active, uploaded)).True()
	gt.Value(t, reloader.reloadCount).Equal(1)
	gt.Value(t, reloader.resetCount).Equal(1)
}

func TestInstallRejectsMalformedArtifact(t *testing.T) {
	original := validArtifact
	activePath := writeActive(t, original)
	reloader := &stubReloader{}
	mgr := routes.NewManager(activePath, reloader,
		routes.WithPollInterval(time.Millisecond))

	err := mgr.Install(context.Background(), []byte("routes = not toml ["))
	gt.Error(t, err)

	active, readErr := os.ReadFile(activePath)
	gt.NoError(t, readErr)
	gt.B(t, bytes.Equal(active, []byte(original))).True()
	gt.Value(t, reloader.reloadCount).Equal(0)
}

func TestInstallRollsBackOnReloadFailure(t *testing.T) {
	original := validArtifact
	activePath := writeActive(t, original)
	reloader := &stubReloader{reloadErr: errors.New("boom")}
	mgr := routes.NewManager(activePath, reloader,
		routes.WithPollInterval(time.Millisecond))

	uploaded := []byte(validArtifact + "\nauthor = \"/author/{slug}/\"\n")
	err := mgr.Install(context.Background(), uploaded)
	gt.Error(t, err)

	active, readErr := os.ReadFile(activePath)
	gt.NoError(t, readErr)
	gt.B(t, bytes.Equal(active, []byte(original))).True()
}

func TestInstallRollsBackOnPollTimeout(t *testing.T) {
	original := validArtifact
	activePath := writeActive(t, original)
	reloader := &stubReloader{finishAfter: 100}
	mgr := routes.NewManager(activePath, reloader,
		routes.WithPollAttempts(3),
		routes.WithPollInterval(time.Millisecond))

	err := mgr.Install(context.Background(), []byte(validArtifact))
	gt.Error(t, err)

	active, readErr := os.ReadFile(activePath)
	gt.NoError(t, readErr)
	gt.B(t, bytes.Equal(active, []byte(original))).True()
	gt.Value(t, reloader.finishPolls).Equal(3)
	// swap reload plus restore reload
	gt.Value(t, reloader.reloadCount).Equal(2)
}

func TestInstallFinishesBeforePollLimit(t *testing.T) {
	activePath := writeActive(t, validArtifact)
	reloader := &stubReloader{finishAfter: 2}
	mgr := routes.NewManager(activePath, reloader,
		routes.WithPollAttempts(6),
		routes.WithPollInterval(time.Millisecond))

	gt.NoError(t, mgr.Install(context.Background(), []byte(validArtifact)))
	gt.Value(t, reloader.finishPolls).Equal(3)
}

func TestParseValidation(t *testing.T) {
	_, err := routes.Parse([]byte(`
[routes."about"]
template = "about"
`))
	gt.Error(t, err)

	_, err = routes.Parse([]byte(`
[[collections]]
route = "/"
permalink = "/static/"
`))
	gt.Error(t, err)

	cfg, err := routes.Parse([]byte(validArtifact))
	gt.NoError(t, err)
	gt.Value(t, cfg.Routes["/about/"].Template).Equal("about")
}

func TestActiveMissingArtifact(t *testing.T) {
	activePath := filepath.Join(t.TempDir(), "routes.toml")
	mgr := routes.NewManager(activePath, &stubReloader{})

	data, err := mgr.Active()
	gt.NoError(t, err)
	gt.Array(t, data).Length(0)
}
