package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/farkas/internal/compiler"
	"github.com/roach88/farkas/internal/farkas"
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/store"
)

// DefaultWorkers is the default number of steps checked at once.
const DefaultWorkers = 4

// Engine checks a batch of certificate steps.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run(): call once; later calls fail with QUEUE_CLOSED
type Engine struct {
	store   *store.Store
	clock   *Clock
	queue   *stepQueue
	runIDs  RunIDGenerator
	workers int
	logger  *slog.Logger

	// check is swapped in tests to exercise panic recovery.
	check func(compiler.Step) (*farkas.Result, error)

	mu    sync.Mutex
	names map[string]bool
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithStore makes Run write every outcome to s.
func WithStore(s *store.Store) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithWorkers bounds the number of steps checked at once.
// Values below 1 mean 1.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		e.logger = l
	}
}

// WithRunIDGenerator sets the source of run IDs.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithClock starts seq numbers after c's current value.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an Engine. Without options it checks DefaultWorkers steps at
// once, generates UUIDv7 run IDs, logs nothing and persists nothing.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		clock:   NewClock(),
		queue:   newStepQueue(),
		runIDs:  UUIDv7Generator{},
		workers: DefaultWorkers,
		logger:  slog.New(slog.DiscardHandler),
		check:   checkStep,
		names:   make(map[string]bool),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enqueue adds a step to the batch. Step names must be unique within a
// batch.
func (e *Engine) Enqueue(st compiler.Step) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.names[st.Name] {
		return NewDuplicateStepError(st.Name)
	}
	if !e.queue.Enqueue(st) {
		return NewQueueClosedError()
	}
	e.names[st.Name] = true
	return nil
}

// EnqueueAll enqueues steps in order, stopping at the first error.
func (e *Engine) EnqueueAll(steps []compiler.Step) error {
	for _, st := range steps {
		if err := e.Enqueue(st); err != nil {
			return err
		}
	}
	return nil
}

// Outcome is the result of checking one step.
type Outcome struct {
	Seq    int64
	Step   compiler.Step
	Result *farkas.Result
	Err    error
}

// Accepted reports whether the step checked cleanly and its sum is a
// contradiction.
func (o Outcome) Accepted() bool {
	return o.Err == nil && o.Result != nil && o.Result.Contradiction
}

// ErrorCode classifies Err. Certificate errors keep their farkas code;
// steps that fail to build are malformed certificates.
func (o Outcome) ErrorCode() string {
	if o.Err == nil {
		return ""
	}
	if code := farkas.CodeOf(o.Err); code != "" {
		return string(code)
	}
	var re *RuntimeError
	if errors.As(o.Err, &re) {
		return string(re.Code)
	}
	return string(farkas.ErrCodeMalformedCertificate)
}

// Record converts the outcome to its persisted form.
func (o Outcome) Record(runID string) store.CheckRecord {
	rec := store.CheckRecord{
		RunID: runID,
		Step:  o.Step.Name,
		Seq:   o.Seq,
		Rule:  o.Step.Rule,
	}
	if o.Err != nil {
		rec.ErrorCode = o.ErrorCode()
		rec.ErrorMessage = farkas.MessageOf(o.Err)
		return rec
	}
	rec.Coefficients = make([]string, len(o.Result.Coefficients))
	for i, c := range o.Result.Coefficients {
		rec.Coefficients[i] = c.String()
	}
	rec.LCD = o.Result.LCD.String()
	rec.Inequality = o.Result.Inequality.String()
	rec.Contradiction = o.Result.Contradiction
	return rec
}

// Report is the result of one Run.
type Report struct {
	RunID    string
	Outcomes []Outcome
}

// Rejected returns the number of outcomes that are not accepted.
func (r *Report) Rejected() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Accepted() {
			n++
		}
	}
	return n
}

// Run checks every enqueued step and returns their outcomes in enqueue
// order. source is recorded with the run when a store is configured.
//
// Run closes the queue. Per-step failures are reported in the outcomes;
// the returned error is non-nil only for cancellation, persistence
// failures, or a second call.
func (e *Engine) Run(ctx context.Context, source string) (*Report, error) {
	if !e.queue.Close() {
		return nil, NewQueueClosedError()
	}

	steps := e.queue.Drain()
	report := &Report{
		RunID:    e.runIDs.Generate(),
		Outcomes: make([]Outcome, len(steps)),
	}
	first := e.clock.Reserve(len(steps))
	for i, st := range steps {
		report.Outcomes[i] = Outcome{Seq: first + int64(i), Step: st}
	}

	logger := e.logger.With("run_id", report.RunID)
	logger.Info("run started", "source", source, "steps", len(steps), "workers", e.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("checking step", "step", o.Step.Name, "seq", o.Seq)
			o.Result, o.Err = e.checkSafely(o.Step)
			if o.Err != nil {
				logger.Warn("step failed", "step", o.Step.Name, "code", o.ErrorCode(), "error", o.Err)
				return nil
			}
			logger.Debug("step checked",
				"step", o.Step.Name,
				"inequality", o.Result.Inequality.String(),
				"contradiction", o.Result.Contradiction,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run %s: %w", report.RunID, err)
	}

	if e.store != nil {
		if err := e.persist(ctx, source, report); err != nil {
			return report, err
		}
	}

	logger.Info("run finished", "steps", len(report.Outcomes), "rejected", report.Rejected())
	return report, nil
}

// persist writes the run and its outcomes in seq order.
func (e *Engine) persist(ctx context.Context, source string, report *Report) error {
	if err := e.store.BeginRun(ctx, report.RunID, source); err != nil {
		return fmt.Errorf("persist run %s: %w", report.RunID, err)
	}
	for _, o := range report.Outcomes {
		if err := e.store.WriteCheck(ctx, o.Record(report.RunID)); err != nil {
			return fmt.Errorf("persist step %q: %w", o.Step.Name, err)
		}
	}
	return nil
}

// checkSafely runs the check for st, returning a panic as STEP_FAILED.
func (e *Engine) checkSafely(st compiler.Step) (res *farkas.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, NewStepFailedError(st.Name, r)
		}
	}()
	return e.check(st)
}

// checkStep builds st in a fresh store and checks it.
func checkStep(st compiler.Step) (*farkas.Result, error) {
	s := ir.NewStore()
	node, err := st.Build(s)
	if err != nil {
		return nil, fmt.Errorf("build step %q: %w", st.Name, err)
	}
	return farkas.Check(s, node)
}
