package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// Mirror persists one JSON document under a fixed key, asynchronously.
// Put never blocks on I/O: the in-memory aggregate stays the source of
// truth and the store is a best-effort mirror. Writes coalesce: if
// mutations outpace the store, intermediate snapshots are skipped and only
// the latest one is written. Transient write failures are retried with
// backoff; persistent failures are logged and the in-memory state remains
// valid.
type Mirror struct {
	store  Store
	key    string
	logger *slog.Logger

	mu      sync.Mutex
	pending []byte
	kick    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewMirror(store Store, key string, logger *slog.Logger) *Mirror {
	m := &Mirror{
		store:  store,
		key:    key,
		logger: logger,
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	m.wg.Add(1)
	go m.flushLoop()
	return m
}

// Load reads and unmarshals the mirrored document into v. Returns false
// when nothing has been persisted under the key yet.
func (m *Mirror) Load(v any) (bool, error) {
	data, ok, err := m.store.Get(m.key)
	if err != nil {
		return false, fmt.Errorf("load %q: %w", m.key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", m.key, err)
	}
	return true, nil
}

// Put schedules v to be persisted. Marshalling happens synchronously so the
// caller's snapshot is captured before it can change; the write itself is
// asynchronous.
func (m *Mirror) Put(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		m.logger.Error("mirror encode failed", "key", m.key, "error", err)
		return
	}

	m.mu.Lock()
	m.pending = data
	m.mu.Unlock()

	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// Close flushes any pending write and stops the background loop.
func (m *Mirror) Close() {
	close(m.done)
	m.wg.Wait()
}

func (m *Mirror) flushLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.kick:
			m.flush()
		case <-m.done:
			m.flush()
			return
		}
	}
}

func (m *Mirror) flush() {
	m.mu.Lock()
	data := m.pending
	m.pending = nil
	m.mu.Unlock()
	if data == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := m.store.Set(m.key, data); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		m.logger.Error("mirror write failed", "key", m.key, "error", err)
	}
}
