// Package backup writes encrypted snapshots of the key-value store to a
// local directory. Backups are whole-database copies taken via SQLite's
// VACUUM INTO, then encrypted with a passphrase-derived key. There is no
// upload target: the store is device-local and so are its backups.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Snapshotter is the piece of the store backups need: a consistent copy of
// the database written to a path.
type Snapshotter interface {
	Backup(ctx context.Context, dstPath string) error
}

type Config struct {
	// Dir receives the encrypted snapshots. Empty disables backups.
	Dir        string
	Passphrase string
	// Interval between automatic snapshots. Zero disables the schedule;
	// RunNow still works.
	Interval time.Duration
	// Keep is the number of snapshots retained, oldest pruned first.
	Keep int
}

type Manager struct {
	cfg    Config
	store  Snapshotter
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(cfg Config, store Snapshotter, logger *slog.Logger) *Manager {
	if cfg.Keep <= 0 {
		cfg.Keep = 7
	}
	return &Manager{cfg: cfg, store: store, logger: logger}
}

// Enabled reports whether the manager has somewhere to write.
func (m *Manager) Enabled() bool {
	return m.cfg.Dir != "" && m.cfg.Passphrase != ""
}

// Start launches the periodic snapshot loop. No-op when disabled or when
// no interval is configured.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() || m.cfg.Interval <= 0 {
		return
	}

	m.mu.Lock()
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := m.RunNow(ctx); err != nil {
					m.logger.Error("scheduled backup failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the schedule and waits for an in-flight snapshot.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// RunNow takes one encrypted snapshot and returns its path.
func (m *Manager) RunNow(ctx context.Context) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("backup not configured")
	}

	if err := os.MkdirAll(m.cfg.Dir, 0700); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	plain := filepath.Join(m.cfg.Dir, "kaimono-"+stamp+".db.tmp")
	encrypted := filepath.Join(m.cfg.Dir, "kaimono-"+stamp+".db.enc")

	if err := m.store.Backup(ctx, plain); err != nil {
		return "", fmt.Errorf("snapshot store: %w", err)
	}
	defer os.Remove(plain)

	if err := EncryptFile(plain, encrypted, m.cfg.Passphrase); err != nil {
		return "", err
	}

	if err := m.prune(); err != nil {
		m.logger.Warn("prune old backups", "error", err)
	}

	m.logger.Info("backup written", "path", encrypted)
	return encrypted, nil
}

// Restore decrypts a snapshot to dstPath. The caller restarts the app
// against the restored database.
func (m *Manager) Restore(srcPath, dstPath string) error {
	return DecryptFile(srcPath, dstPath, m.cfg.Passphrase)
}

// prune removes the oldest snapshots beyond the retention count. The
// timestamped names sort chronologically.
func (m *Manager) prune() error {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".db.enc") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= m.cfg.Keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-m.cfg.Keep] {
		if err := os.Remove(filepath.Join(m.cfg.Dir, name)); err != nil {
			return err
		}
	}
	return nil
}
