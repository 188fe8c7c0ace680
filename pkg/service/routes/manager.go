package routes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

const (
	defaultPollAttempts = 6
	defaultPollInterval = time.Second
)

// Reloader is the serving layer under reload. Reset releases the routing
// generators that depend on the artifact, Reload rebuilds them, and Finished
// reports whether generation has completed.
type Reloader interface {
	Reset()
	Reload(ctx context.Context) error
	Finished(ctx context.Context) (bool, error)
}

// Manager installs uploaded route-configuration artifacts. Every failure
// path ends with the previously active artifact reinstated, so the service
// never keeps serving from a broken artifact.
type Manager struct {
	activePath   string
	reloader     Reloader
	pollAttempts int
	pollInterval time.Duration

	mu         sync.Mutex
	backupPath string
}

type Option func(*Manager)

// WithPollAttempts overrides the bounded retry count
func WithPollAttempts(n int) Option {
	return func(m *Manager) {
		m.pollAttempts = n
	}
}

// WithPollInterval overrides the fixed delay between poll attempts
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.pollInterval = d
	}
}

func NewManager(activePath string, reloader Reloader, opts ...Option) *Manager {
	m := &Manager{
		activePath:   activePath,
		reloader:     reloader,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Active returns the currently installed artifact. When none has been
// installed yet the artifact is empty, not an error.
func (m *Manager) Active() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.activePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read routes artifact")
	}

	return data, nil
}

// Install validates the uploaded artifact, backs up the active one, swaps
// the upload in, and brings the routing layer up on it. If the reload fails
// or the routing layer never reports finished within the retry limit, the
// backup is reinstated, the routing layer is reloaded on it, and the
// original failure is returned.
func (m *Manager) Install(ctx context.Context, uploaded []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := Parse(uploaded); err != nil {
		return goerr.Wrap(err, "uploaded routes artifact is invalid", goerr.T(types.ErrTagValidation))
	}

	if err := m.backup(); err != nil {
		return err
	}

	if err := os.WriteFile(m.activePath, uploaded, 0o644); err != nil {
		return goerr.Wrap(err, "failed to install routes artifact", goerr.T(types.ErrTagInternal))
	}

	m.reloader.Reset()

	if err := m.reloader.Reload(ctx); err != nil {
		m.restore(ctx)
		return goerr.Wrap(err, "failed to reload with new routes artifact", goerr.T(types.ErrTagInternal))
	}

	if err := m.awaitFinished(ctx); err != nil {
		m.restore(ctx)
		return err
	}

	return nil
}

// backup copies the active artifact to a timestamped path, replacing the
// previous backup so exactly one rolling copy exists.
func (m *Manager) backup() error {
	active, err := os.ReadFile(m.activePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.backupPath = ""
			return nil
		}
		return goerr.Wrap(err, "failed to read active routes artifact", goerr.T(types.ErrTagInternal))
	}

	dir := filepath.Dir(m.activePath)
	base := filepath.Base(m.activePath)
	backupPath := filepath.Join(dir, fmt.Sprintf("%s-%s.bak", base, time.Now().Format("2006-01-02-15-04-05")))

	if err := os.WriteFile(backupPath, active, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write routes backup", goerr.T(types.ErrTagInternal))
	}

	if m.backupPath != "" && m.backupPath != backupPath {
		if err := os.Remove(m.backupPath); err != nil && !os.IsNotExist(err) {
			logging.Default().Warn("failed to remove stale routes backup",
				"path", m.backupPath, "error", err)
		}
	}
	m.backupPath = backupPath

	return nil
}

// restore reinstates the backup and reloads on it. Restore failures are
// logged but never mask the original failure.
func (m *Manager) restore(ctx context.Context) {
	logger := logging.From(ctx)

	if m.backupPath == "" {
		logger.Warn("no routes backup to restore")
		return
	}

	backup, err := os.ReadFile(m.backupPath)
	if err != nil {
		logger.Error("failed to read routes backup", "path", m.backupPath, "error", err)
		return
	}

	if err := os.WriteFile(m.activePath, backup, 0o644); err != nil {
		logger.Error("failed to restore routes artifact", "path", m.activePath, "error", err)
		return
	}

	m.reloader.Reset()
	if err := m.reloader.Reload(ctx); err != nil {
		logger.Error("failed to reload restored routes artifact", "error", err)
	}
}

// awaitFinished polls with a fixed interval until the routing layer reports
// finished or the attempt limit is reached.
func (m *Manager) awaitFinished(ctx context.Context) error {
	for attempt := 0; attempt < m.pollAttempts; attempt++ {
		finished, err := m.reloader.Finished(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to check routing generation state", goerr.T(types.ErrTagInternal))
		}
		if finished {
			return nil
		}

		select {
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "routes reload canceled", goerr.T(types.ErrTagInternal))
		case <-time.After(m.pollInterval):
		}
	}

	return goerr.New("routing layer did not finish generating in time",
		goerr.T(types.ErrTagInternal), goerr.V("attempts", m.pollAttempts))
}
