package textprep

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/ingest"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/stats"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// Textprep is the corpus preparation facade
type Textprep struct {
	pipeline *ingest.Pipeline
	store    store.Store
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Textprep instance
type Options struct {
	Pipeline *ingest.Pipeline
	// Store is optional; without it runs are not persisted.
	Store  store.Store
	Logger *zap.Logger
	Now    func() time.Time
}

// Result is the outcome of one corpus pass. Docs[i] belongs to corpus[i].
type Result struct {
	RunID     string                `json:"run_id"`
	CreatedAt time.Time             `json:"created_at"`
	Docs      []ingest.ProcessedDoc `json:"docs"`
	Stats     stats.Stats           `json:"stats"`
}

// New creates a Textprep instance with the given dependencies
func New(opts Options) (*Textprep, error) {
	if opts.Pipeline == nil {
		return nil, fmt.Errorf("%w: pipeline is required", internalerr.ErrInvalidConfig)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Textprep{
		pipeline: opts.Pipeline,
		store:    opts.Store,
		log:      log,
		now:      now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close shuts down the store, if any
func (t *Textprep) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}

// Pipeline returns the underlying pipeline.
func (t *Textprep) Pipeline() *ingest.Pipeline { return t.pipeline }

// Process runs every corpus element through the pipeline, builds the
// corpus report and, when a store is configured, persists the run.
func (t *Textprep) Process(ctx context.Context, corpus []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	created := t.now().UTC()
	res := Result{
		RunID:     t.newID(created),
		CreatedAt: created,
		Docs:      t.pipeline.ProcessBatch(corpus),
	}

	an := stats.NewAnalyzer()
	an.ProcessAll(res.Docs)
	res.Stats = an.Snapshot()

	t.log.Info("corpus processed",
		zap.String("run_id", res.RunID),
		zap.Int("docs", len(res.Docs)),
		zap.Int64("sentences", res.Stats.Sentences),
		zap.Int64("tokens", res.Stats.Tokens),
	)

	if t.store == nil {
		return res, nil
	}
	if err := t.store.SaveRun(ctx, toRun(res)); err != nil {
		t.log.Error("save run failed", zap.String("run_id", res.RunID), zap.Error(err))
		return Result{}, fmt.Errorf("save run %s: %w", res.RunID, err)
	}
	return res, nil
}

// Run loads a persisted run.
func (t *Textprep) Run(ctx context.Context, id string) (store.Run, error) {
	if t.store == nil {
		return store.Run{}, internalerr.ErrStoreUnavailable
	}
	return t.store.GetRun(ctx, id)
}

// Runs lists the most recent persisted runs.
func (t *Textprep) Runs(ctx context.Context, limit int) ([]store.RunInfo, error) {
	if t.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	return t.store.ListRuns(ctx, limit)
}

func (t *Textprep) newID(at time.Time) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), t.entropy).String()
}

func toRun(res Result) store.Run {
	docs := make([]store.Doc, len(res.Docs))
	for i, d := range res.Docs {
		docs[i] = store.Doc{
			Index:      d.Index,
			Normalized: d.Normalized,
			Sentences:  d.Sentences,
			Tokens:     d.Tokens,
			Tagged:     d.Tagged,
		}
	}
	return store.Run{ID: res.RunID, CreatedAt: res.CreatedAt, Docs: docs}
}
