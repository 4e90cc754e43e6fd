package maintenance

import (
	"context"
	"time"

	"github.com/cobalt-cloud/mavengraph/internal/depgraph"
	"github.com/cobalt-cloud/mavengraph/pkg/log"
	"github.com/robfig/cron"
)

// Runner periodically reclaims orphaned graph rows. Cleanup is
// best-effort maintenance: failures are logged and the runner
// keeps going, off the critical path of any build.
type Runner struct {
	store    depgraph.Store
	schedule cron.Schedule
}

// NewRunner parses a five-field cron expression and binds the
// runner to the store.
func NewRunner(store depgraph.Store, expression string) (*Runner, error) {
	parser := cron.NewParser(
		cron.Minute |
			cron.Hour |
			cron.Dom |
			cron.Month |
			cron.Dow,
	)

	schedule, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}

	return &Runner{store: store, schedule: schedule}, nil
}

func (r *Runner) nextTick() time.Time {
	return r.schedule.Next(time.Now())
}

// Listen blocks, running cleanup on every schedule tick until the
// context is cancelled.
func (r *Runner) Listen(ctx context.Context) {
	log.Info("cleanup runner listening", "next", r.nextTick())

	for {
		select {
		case <-time.After(time.Until(r.nextTick())):
			if err := r.store.Cleanup(); err != nil {
				log.Error("cleanup failure", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
