package persist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunStore is the write side of the run journal. *RunRepo implements it.
type RunStore interface {
	StartRun(ctx context.Context, seed int64, startedAt time.Time) (int64, error)
	LogWave(ctx context.Context, runID int64, e WaveEntry) error
	FinishRun(ctx context.Context, s RunSummary) error
}

type journalOp struct {
	start  *RunSummary
	wave   *WaveEntry
	finish *RunSummary
}

// Journal moves run bookkeeping off the game loop. The loop enqueues without
// blocking; a single writer goroutine talks to the store. When the queue is
// full, or after Close, the entry is dropped and logged.
type Journal struct {
	store   RunStore
	ops     chan journalOp
	log     *zap.Logger
	timeout time.Duration
	done    chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
}

func NewJournal(store RunStore, buffer int, log *zap.Logger) *Journal {
	if buffer < 1 {
		buffer = 1
	}
	return &Journal{
		store:   store,
		ops:     make(chan journalOp, buffer),
		log:     log,
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Start launches the writer goroutine. It returns once Close has been
// called and the queue is drained, or when ctx is cancelled. Calls after the
// first are ignored.
func (j *Journal) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return
	}
	j.started = true
	go j.run(ctx)
}

func (j *Journal) run(ctx context.Context) {
	defer close(j.done)
	var runID int64
	for {
		select {
		case <-ctx.Done():
			return
		case op, ok := <-j.ops:
			if !ok {
				return
			}
			runID = j.apply(ctx, runID, op)
		}
	}
}

func (j *Journal) apply(ctx context.Context, runID int64, op journalOp) int64 {
	wctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	switch {
	case op.start != nil:
		id, err := j.store.StartRun(wctx, op.start.Seed, op.start.StartedAt)
		if err != nil {
			j.log.Error("journal start run", zap.Error(err))
			return 0
		}
		j.log.Info("run journal started", zap.Int64("run_id", id))
		return id
	case op.wave != nil:
		if runID == 0 {
			return runID
		}
		if err := j.store.LogWave(wctx, runID, *op.wave); err != nil {
			j.log.Error("journal log wave", zap.Int("wave", op.wave.Wave), zap.Error(err))
		}
	case op.finish != nil:
		if runID == 0 {
			return runID
		}
		s := *op.finish
		s.ID = runID
		if err := j.store.FinishRun(wctx, s); err != nil {
			j.log.Error("journal finish run", zap.Error(err))
		}
		return 0
	}
	return runID
}

func (j *Journal) enqueue(op journalOp) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		j.log.Warn("run journal closed, entry dropped")
		return
	}
	select {
	case j.ops <- op:
	default:
		j.log.Warn("run journal queue full, entry dropped")
	}
}

// BeginRun opens a new run. Entries before the first BeginRun are ignored.
func (j *Journal) BeginRun(seed int64, at time.Time) {
	j.enqueue(journalOp{start: &RunSummary{Seed: seed, StartedAt: at}})
}

// Wave records a wave transition for the open run.
func (j *Journal) Wave(e WaveEntry) {
	j.enqueue(journalOp{wave: &e})
}

// Finish closes the open run with its final counters.
func (j *Journal) Finish(s RunSummary) {
	j.enqueue(journalOp{finish: &s})
}

// Close stops accepting entries and, when the writer was started, waits for
// it to drain. Closing twice is a no-op.
func (j *Journal) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.ops)
	started := j.started
	j.mu.Unlock()

	if started {
		<-j.done
	}
}
