package runner

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/xa-lang/xa/internal/vfs"
)

// RunFiles runs every named file independently and concurrently. Results are
// returned in input order; a file named more than once runs once and its
// result is repeated. The first failure cancels the remaining runs.
//
// Concurrent calls on the same Runner share in-flight runs of a file. A
// shared run cancelled by another caller is started again for this one.
func (r *Runner) RunFiles(ctx context.Context, names []string) ([]*Result, error) {
	results := make([]*Result, len(names))

	// First index of each distinct file.
	first := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := first[vfs.Clean(name)]; !ok {
			first[vfs.Clean(name)] = i
		}
	}

	sem := make(chan struct{}, r.concurrency())
	g, gctx := errgroup.WithContext(ctx)

	for key, i := range first {
		key, i := key, i

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			res, err := r.shared(gctx, key, names[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, name := range names {
		results[i] = results[first[vfs.Clean(name)]]
	}
	return results, nil
}

// shared runs name, joining a run of the same file that another caller has
// in flight.
func (r *Runner) shared(ctx context.Context, key, name string) (*Result, error) {
	for {
		ch := r.sf.DoChan(key, func() (interface{}, error) {
			return r.RunFile(ctx, name)
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The run belonged to a caller whose context ended; ours has not.
				if ctx.Err() == nil && isCancellation(res.Err) {
					continue
				}
				return nil, res.Err
			}
			return res.Val.(*Result), nil
		}
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
