package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/xa-lang/xa/internal/vfs"
)

// rewatchInterval is the shortest wait between attempts to watch a file
// again after it was removed or renamed.
const rewatchInterval = 50 * time.Millisecond

// Watch runs name, then runs it again after every change reported by w,
// waiting for debounce to pass without further events. When the file is
// removed or renamed the watch is re-added as soon as the file exists again,
// and the new file is run. Watch returns when ctx is done or the watcher's
// event stream ends.
func (r *Runner) Watch(ctx context.Context, name string, w vfs.Watcher, debounce time.Duration, onResult func(*Result, error)) error {
	if err := w.Add(name); err != nil {
		return fmt.Errorf("watching %s: %w", name, err)
	}
	defer w.Remove(name)

	log := r.logger().WithField("watch", name)
	onResult(r.RunFile(ctx, name))

	retry := max(debounce, rewatchInterval)

	var (
		fire    <-chan time.Time
		rewatch <-chan time.Time
		events  = w.Events()
		errs    = w.Errors()
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if vfs.Clean(ev.Path) != vfs.Clean(name) {
				continue
			}
			switch {
			case ev.Op.Has(vfs.OpRemove), ev.Op.Has(vfs.OpRename):
				// Editors that save by replacing the file drop the watch.
				log.Debug("file went away (%v)", ev.Op)
				fire = nil
				rewatch = time.After(retry)
				continue
			case ev.Op.Has(vfs.OpWrite), ev.Op.Has(vfs.OpCreate):
			default:
				continue
			}
			log.Debug("change detected (%v)", ev.Op)
			if debounce <= 0 {
				onResult(r.RunFile(ctx, name))
				continue
			}
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			onResult(r.RunFile(ctx, name))

		case <-rewatch:
			if err := w.Add(name); err != nil {
				log.Debug("not watching yet: %v", err)
				rewatch = time.After(retry)
				continue
			}
			rewatch = nil
			log.Info("watching %s again", name)
			onResult(r.RunFile(ctx, name))

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn("watch error: %v", err)
		}
	}
}
