package pricing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueRunsSequentiallyAndKeepsGoing(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	tasks := []Task{
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return boom },
		func(context.Context) error { order = append(order, 3); return nil },
	}

	results, err := NewQueue(0).Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("unexpected run error %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[2] != 3 {
		t.Fatalf("unexpected order %v", order)
	}
	if results[0] != nil || !errors.Is(results[1], boom) || results[2] != nil {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestQueueSpacesTasks(t *testing.T) {
	interval := 40 * time.Millisecond
	var starts []time.Time
	task := func(context.Context) error {
		starts = append(starts, time.Now())
		return nil
	}

	if _, err := NewQueue(interval).Run(context.Background(), []Task{task, task, task}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < interval-5*time.Millisecond {
			t.Fatalf("tasks %d and %d only %s apart", i-1, i, gap)
		}
	}
}

func TestQueueGapCountsFromTaskEnd(t *testing.T) {
	interval := 40 * time.Millisecond
	var starts, ends []time.Time
	slow := func(context.Context) error {
		starts = append(starts, time.Now())
		time.Sleep(2 * interval)
		ends = append(ends, time.Now())
		return nil
	}

	if _, err := NewQueue(interval).Run(context.Background(), []Task{slow, slow, slow}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(ends[i-1]); gap < interval-5*time.Millisecond {
			t.Fatalf("task %d started %s after task %d finished", i, gap, i-1)
		}
	}
}

func TestQueueCancellationSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	tasks := []Task{
		func(context.Context) error { ran++; cancel(); return nil },
		func(context.Context) error { ran++; return nil },
		func(context.Context) error { ran++; return nil },
	}

	results, err := NewQueue(time.Hour).Run(ctx, tasks)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran != 1 {
		t.Fatalf("expected one task to run, got %d", ran)
	}
	if results[0] != nil || !errors.Is(results[1], ErrSkipped) || !errors.Is(results[2], ErrSkipped) {
		t.Fatalf("unexpected results %v", results)
	}
}
