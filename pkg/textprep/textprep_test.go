package textprep

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/textprep/pkg/textprep/ingest"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/resource"
	"github.com/cognicore/textprep/pkg/textprep/rules"
	"github.com/cognicore/textprep/pkg/textprep/segment"
	"github.com/cognicore/textprep/pkg/textprep/store/memstore"
	"github.com/cognicore/textprep/pkg/textprep/tagger"
)

func newTestPipeline(t *testing.T) *ingest.Pipeline {
	t.Helper()
	bundle, err := resource.Embedded().Read(context.Background(), resource.PunktPortuguese)
	if err != nil {
		t.Fatalf("read punkt: %v", err)
	}
	n := ingest.NewNormalizer(nil, 2)
	seg, err := segment.New(bundle, n)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	p, err := ingest.NewPipeline(n, seg, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestNewRequiresPipeline(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestProcessPersistsRun(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tp, err := New(Options{Pipeline: newTestPipeline(t), Store: st, Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer tp.Close()

	corpus := []string{
		"Pagamento de R$ 1.234,56 em 01/02/2020.",
		"",
		"Veja www.exemplo.com.br. Obrigado.",
	}
	res, err := tp.Process(ctx, corpus)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(res.RunID) != 26 {
		t.Errorf("expected a ULID run id, got %q", res.RunID)
	}
	if len(res.Docs) != len(corpus) {
		t.Fatalf("expected %d docs, got %d", len(corpus), len(res.Docs))
	}
	if res.Docs[0].Normalized != "pagamento de r$ regexvalor em regexdata." {
		t.Errorf("doc 0 normalized = %q", res.Docs[0].Normalized)
	}
	if res.Stats.Docs != 3 || res.Stats.EmptyDocs != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
	if res.Stats.Placeholders[rules.NameLinks] != 1 || res.Stats.Placeholders[rules.NameValues] != 1 {
		t.Errorf("unexpected placeholder counts %v", res.Stats.Placeholders)
	}

	run, err := tp.Run(ctx, res.RunID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !run.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v", run.CreatedAt)
	}
	if len(run.Docs) != 3 || !reflect.DeepEqual(run.Docs[2].Tokens, res.Docs[2].Tokens) {
		t.Errorf("stored docs differ: %+v", run.Docs)
	}

	infos, err := tp.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != res.RunID || infos[0].DocCount != 3 {
		t.Errorf("unexpected run list %+v", infos)
	}
}

func TestProcessPersistsTags(t *testing.T) {
	ctx := context.Background()

	data, err := os.ReadFile("tagger/testdata/brill_pt.yaml")
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	m, err := tagger.LoadModel(data)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	tg, err := tagger.New(m)
	if err != nil {
		t.Fatalf("tagger.New: %v", err)
	}

	bundle, _ := resource.Embedded().Read(ctx, resource.PunktPortuguese)
	n := ingest.NewNormalizer(nil, 1)
	seg, err := segment.New(bundle, n)
	if err != nil {
		t.Fatalf("segment.New: %v", err)
	}
	p, err := ingest.NewPipeline(n, seg, tg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	tp, _ := New(Options{Pipeline: p, Store: memstore.New()})
	res, err := tp.Process(ctx, []string{"Isto é uma frase."})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Docs[0].Tagged) != 1 {
		t.Fatalf("expected tagged doc, got %#v", res.Docs[0].Tagged)
	}

	run, err := tp.Run(ctx, res.RunID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(run.Docs[0].Tagged, res.Docs[0].Tagged) {
		t.Errorf("stored tags = %#v, want %#v", run.Docs[0].Tagged, res.Docs[0].Tagged)
	}
}

func TestProcessWithoutStore(t *testing.T) {
	tp, err := New(Options{Pipeline: newTestPipeline(t)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := tp.Process(context.Background(), []string{"Olá."})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Docs) != 1 {
		t.Errorf("expected 1 doc, got %d", len(res.Docs))
	}
	if _, err := tp.Run(context.Background(), res.RunID); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := tp.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestProcessRunIDsAreUnique(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tp, _ := New(Options{Pipeline: newTestPipeline(t), Now: func() time.Time { return fixed }})

	a, _ := tp.Process(context.Background(), nil)
	b, _ := tp.Process(context.Background(), nil)
	if a.RunID == b.RunID || a.RunID > b.RunID {
		t.Errorf("expected increasing run ids, got %s then %s", a.RunID, b.RunID)
	}
}

func TestProcessCanceled(t *testing.T) {
	tp, _ := New(Options{Pipeline: newTestPipeline(t)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tp.Process(ctx, []string{"x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
