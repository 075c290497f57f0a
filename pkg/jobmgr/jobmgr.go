// Package jobmgr runs named background jobs, at most one per name, and
// cancels them on demand or on shutdown.
//
//	jm := jobmgr.New()
//	err := jm.Start(ctx, "register:1234", func(ctx context.Context) error {
//		return register(ctx, "1234")
//	})
//	...
//	jm.StopAll()
//	jm.Wait()
package jobmgr

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrRunning is returned by Start when a job of that name is still running.
var ErrRunning = errors.New("job already running")

type job struct {
	cancel  context.CancelFunc
	started time.Time
}

// Manager tracks running jobs. It is safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

func New() *Manager {
	return &Manager{jobs: make(map[string]*job)}
}

// Start runs fn in its own goroutine under a child of ctx. The job is
// forgotten once fn returns; its error is logged.
func (m *Manager) Start(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[name]; ok {
		return ErrRunning
	}

	jctx, cancel := context.WithCancel(ctx)
	j := &job{cancel: cancel, started: time.Now()}
	m.jobs[name] = j
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer cancel()

		err := fn(jctx)
		ev := log.Debug()
		if err != nil && !errors.Is(err, context.Canceled) {
			ev = log.Error().Err(err)
		}
		ev.Str("job", name).Dur("took", time.Since(j.started)).Msg("Job finished")

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels the named job. It reports whether the job was running.
func (m *Manager) Stop(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[name]
	if ok {
		j.cancel()
		delete(m.jobs, name)
	}
	return ok
}

// StopAll cancels every running job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, j := range m.jobs {
		j.cancel()
		delete(m.jobs, name)
	}
}

// Running returns the names of running jobs, sorted.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Wait blocks until every started job has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}
