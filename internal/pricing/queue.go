package pricing

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval spaces consecutive pricing-decision calls.
const DefaultInterval = 300 * time.Millisecond

// ErrSkipped marks tasks that never ran because the batch was canceled.
var ErrSkipped = errors.New("skipped: batch canceled")

// Task is one unit of queued work.
type Task func(ctx context.Context) error

// Queue runs tasks one at a time, leaving at least one interval between the end of a
// task and the start of the next.
type Queue struct {
	interval time.Duration
}

// NewQueue builds a queue; a non-positive interval disables throttling.
func NewQueue(interval time.Duration) *Queue {
	return &Queue{interval: interval}
}

func (q *Queue) limiter() *rate.Limiter {
	if q == nil || q.interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(q.interval), 1)
}

// cooldown returns a limiter whose token was just spent, so the next Wait blocks for a
// full interval from now.
func (q *Queue) cooldown() *rate.Limiter {
	l := q.limiter()
	l.Allow()
	return l
}

// Run executes tasks sequentially. It returns one error slot per task; a task error
// never stops the run. When ctx is canceled the remaining slots are ErrSkipped and the
// context error is returned.
func (q *Queue) Run(ctx context.Context, tasks []Task) ([]error, error) {
	results := make([]error, len(tasks))
	limiter := q.limiter()

	for i, task := range tasks {
		if err := limiter.Wait(ctx); err != nil {
			for j := i; j < len(results); j++ {
				results[j] = ErrSkipped
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			return results, err
		}
		results[i] = task(ctx)
		limiter = q.cooldown()
	}
	return results, nil
}
