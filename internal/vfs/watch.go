package vfs

import (
	"context"
	"sync"
	"time"
)

// PollingWatcher is a stat-based watcher portable across OSes and usable with
// any FileSystem, including MemFS.
type PollingWatcher struct {
	fs       FileSystem
	interval time.Duration
	evCh     chan Event
	erCh     chan error
	stop     context.CancelFunc

	mu    sync.Mutex
	paths map[string]time.Time
}

func NewPollingWatcher(fs FileSystem, interval time.Duration) *PollingWatcher {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &PollingWatcher{
		fs:       fs,
		interval: interval,
		evCh:     make(chan Event, 64),
		erCh:     make(chan error, 1),
		stop:     cancel,
		paths:    make(map[string]time.Time),
	}
	go w.loop(ctx)
	return w
}

func (w *PollingWatcher) Events() <-chan Event { return w.evCh }
func (w *PollingWatcher) Errors() <-chan error { return w.erCh }

// Add starts watching name. The current modification time is the baseline,
// so only later changes produce events.
func (w *PollingWatcher) Add(name string) error {
	var mod time.Time
	if info, err := w.fs.Stat(name); err == nil {
		mod = info.ModTime()
	}
	w.mu.Lock()
	w.paths[name] = mod
	w.mu.Unlock()
	return nil
}

func (w *PollingWatcher) Remove(name string) error {
	w.mu.Lock()
	delete(w.paths, name)
	w.mu.Unlock()
	return nil
}

func (w *PollingWatcher) Close() error {
	w.stop()
	return nil
}

func (w *PollingWatcher) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *PollingWatcher) poll(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, last := range w.paths {
		info, err := w.fs.Stat(name)
		if err != nil {
			if IsNotExist(err) {
				continue
			}
			select {
			case w.erCh <- err:
			default:
			}
			continue
		}
		if info.ModTime().After(last) {
			w.paths[name] = info.ModTime()
			op := OpWrite
			if last.IsZero() {
				op = OpCreate
			}
			select {
			case w.evCh <- Event{Path: name, Op: op, Time: time.Now()}:
			case <-ctx.Done():
				return
			}
		}
	}
}
