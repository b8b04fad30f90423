package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/occsched/core/generator"
	coremetrics "github.com/kilianp07/occsched/core/metrics"
	"github.com/kilianp07/occsched/internal/eventbus"
)

// StartProgressCollector forwards generator progress to sinks implementing
// StageRecorder. It stops when ctx is canceled or the bus is closed; on
// cancel the events already buffered are still recorded. The returned
// channel is closed once it has stopped.
func StartProgressCollector(ctx context.Context, bus *eventbus.TypedBus[generator.Progress], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.StageRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				bus.Unsubscribe(sub)
				for p := range sub {
					recordStage(rec, p)
				}
				return
			case p, ok := <-sub:
				if !ok {
					bus.Unsubscribe(sub)
					return
				}
				recordStage(rec, p)
			}
		}
	}()
	return done
}

func recordStage(rec coremetrics.StageRecorder, p generator.Progress) {
	_ = rec.RecordStage(coremetrics.StageEvent{
		RunID:    p.RunID,
		Building: p.Building,
		Stage:    string(p.Stage),
		Elapsed:  p.Elapsed,
		Time:     time.Now(),
	})
}
