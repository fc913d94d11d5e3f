// Package watch drives the fetch → parse → aggregate → view → render chain,
// once or on a fixed interval. The loop is strictly sequential: a cycle
// finishes rendering before the next fetch starts.
package watch

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"

	"github.com/rice8y/sdetails/internal/logger"
	"github.com/rice8y/sdetails/internal/metrics"
	"github.com/rice8y/sdetails/internal/render"
	"github.com/rice8y/sdetails/internal/slurm"
	"github.com/rice8y/sdetails/internal/view"
)

// Options configures one Loop.
type Options struct {
	Source      slurm.Source
	Interval    time.Duration // <= 0 runs a single cycle
	Partition   string
	Sort        view.SortKey
	ShowSummary bool
	ExportPath  string
	Styles      render.Styles
	Out         io.Writer
	ClearScreen bool // clear and re-home between watch cycles
	Log         logger.Logger
	Now         func() time.Time
}

// lastGood is the retained result of the most recent successful cycle. It
// keeps the display populated when a later fetch fails. Single writer: only
// the loop goroutine touches it.
type lastGood struct {
	nodes            []slurm.NodeRecord
	summary          metrics.Summary
	defaultPartition string
	fetchedAt        time.Time
}

// Loop runs the collection and presentation pipeline.
type Loop struct {
	opts Options
	last *lastGood
}

// New creates a loop. Nil optional fields get working defaults.
func New(opts Options) *Loop {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sort == "" {
		opts.Sort = view.SortName
	}
	return &Loop{opts: opts}
}

// Run executes the loop until the context is cancelled (watch mode) or one
// cycle completes (one-shot). Cancellation is a normal exit, not an error;
// it is observed at the top of each iteration and interrupts the
// inter-cycle sleep immediately.
func (l *Loop) Run(ctx context.Context) error {
	if l.opts.Interval <= 0 {
		return l.cycle(ctx)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := l.cycle(ctx); err != nil {
			// A fetch aborted by cancellation is the user quitting,
			// not a failure.
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		timer := time.NewTimer(l.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// cycle performs one fetch-render pass. A fetch failure is fatal only when
// there is no previous result to fall back on; otherwise the last good
// result is re-rendered marked stale and the schedule continues unchanged.
func (l *Loop) cycle(ctx context.Context) error {
	snap, err := l.opts.Source.Fetch(ctx)
	stale := false
	if err != nil {
		if l.last == nil {
			return err
		}
		l.opts.Log.Error("fetch failed, re-rendering previous result: %v", err)
		stale = true
	} else {
		pr := slurm.ParseNodes(snap, l.opts.Log)
		metrics.Annotate(pr.Nodes)
		l.last = &lastGood{
			nodes:            pr.Nodes,
			summary:          metrics.Summarize(pr.Nodes, snap, pr.Degraded),
			defaultPartition: pr.DefaultPartition,
			fetchedAt:        snap.FetchedAt,
		}
	}

	l.render(stale)
	l.export(stale)
	return nil
}

// render writes the current (possibly stale) result to the output.
func (l *Loop) render(stale bool) {
	s := l.opts.Styles
	out := l.opts.Out

	if l.opts.ClearScreen {
		termenv.NewOutput(out).ClearScreen()
	}

	if l.opts.Interval > 0 {
		io.WriteString(out, s.Title.Render("SLURM Node Monitor")+" - "+l.opts.Now().Format("2006-01-02 15:04:05")+"\n")
		io.WriteString(out, s.Muted.Render("Auto-refresh: "+l.opts.Interval.String()+" interval (Ctrl+C to exit)")+"\n\n")
	}
	if stale {
		io.WriteString(out, s.Attention.Render("[stale] fetch failed, showing data from "+l.last.fetchedAt.Format("15:04:05"))+"\n\n")
	}

	if l.opts.ShowSummary {
		io.WriteString(out, render.Summary(l.last.summary, s))
		io.WriteString(out, "\n")
	}

	shown := view.Apply(l.last.nodes, l.opts.Partition, l.opts.Sort)
	io.WriteString(out, render.Table(shown, render.TableOptions{
		Filter:           l.opts.Partition,
		DefaultPartition: l.last.defaultPartition,
	}, s))
}

// export writes the machine-readable payload when configured. Export
// failures are reported but never suppress the live view.
func (l *Loop) export(stale bool) {
	if l.opts.ExportPath == "" {
		return
	}
	shown := view.Apply(l.last.nodes, l.opts.Partition, l.opts.Sort)
	doc := render.BuildExport(shown, l.last.summary, l.opts.Partition, l.opts.Sort, stale, l.opts.Now())
	if err := render.WriteExport(l.opts.ExportPath, doc); err != nil {
		l.opts.Log.Error("%v", err)
	}
}
