// Package preview serves a generated site locally and regenerates it when
// the sources change or on a fixed interval.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultPort matches the default site base URL.
const DefaultPort = 8000

// Options configures Run.
type Options struct {
	Root         string        // site root on disk
	Addr         string        // listen address, e.g. "localhost:8000"
	Watch        bool          // regenerate on changes below _site-src
	Debounce     time.Duration // quiet window for Watch
	RebuildEvery time.Duration // periodic regeneration, 0 disables
	Build        BuildFunc     // required when Watch or RebuildEvery is set
	Registry     *prometheus.Registry
}

func (o Options) validate() error {
	if o.Root == "" {
		return errors.New("preview root is required")
	}
	if (o.Watch || o.RebuildEvery > 0) && o.Build == nil {
		return errors.New("regeneration requires a build function")
	}
	if o.RebuildEvery < 0 {
		return fmt.Errorf("invalid rebuild interval %s", o.RebuildEvery)
	}
	return nil
}

// Run serves the site until ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.Addr == "" {
		opts.Addr = fmt.Sprintf("localhost:%d", DefaultPort)
	}

	srv := NewServer(opts.Addr, osfs.New(opts.Root), opts.Registry)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	reqs := make(chan struct{}, 1)
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	workerDone := make(chan struct{})
	if opts.Build != nil {
		go runRebuilds(workerCtx, reqs, opts.Build, workerDone)
	} else {
		close(workerDone)
	}

	if opts.RebuildEvery > 0 {
		sched, err := NewScheduler()
		if err != nil {
			_ = srv.Stop(context.Background())
			return err
		}
		if _, err := sched.ScheduleRebuild(opts.RebuildEvery, reqs); err != nil {
			_ = srv.Stop(context.Background())
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	if opts.Watch {
		src := filepath.Join(opts.Root, config.SourceDirName)
		w, err := newWatcher(src)
		if err != nil {
			_ = srv.Stop(context.Background())
			return err
		}
		defer func() { _ = w.Close() }()
		debouncer := NewDebouncer(opts.Debounce, reqs)
		defer debouncer.Stop()
		slog.Info("Watching for changes", logfields.Path(src))

		for {
			select {
			case <-ctx.Done():
				return shutdown(srv, stopWorker, workerDone)
			case ev, ok := <-w.Events:
				if !ok {
					return shutdown(srv, stopWorker, workerDone)
				}
				handleEvent(w, ev, debouncer.Trigger)
			case err, ok := <-w.Errors:
				if !ok {
					return shutdown(srv, stopWorker, workerDone)
				}
				slog.Warn("Watcher error", logfields.Error(err))
			}
		}
	}

	<-ctx.Done()
	return shutdown(srv, stopWorker, workerDone)
}

func shutdown(srv *Server, stopWorker context.CancelFunc, workerDone <-chan struct{}) error {
	slog.Info("Shutting down preview server...")
	stopWorker()
	<-workerDone

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
