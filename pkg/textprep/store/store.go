package store

import (
	"context"
	"time"

	"github.com/cognicore/textprep/pkg/textprep/tagger"
)

// Store persists model artifacts and finished batch runs. The processing
// pipeline never touches it; drivers and the resource loader do.
type Store interface {
	Close() error

	// Artifacts (punkt bundles, tagger models) keyed by a filename-like key
	PutArtifact(ctx context.Context, key string, data []byte) error
	GetArtifact(ctx context.Context, key string) ([]byte, bool, error)
	ListArtifacts(ctx context.Context) ([]ArtifactInfo, error)

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunInfo, error)
}

// ArtifactInfo describes a stored artifact without its payload
type ArtifactInfo struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}

// Run is the persisted output of one corpus pass
type Run struct {
	ID        string
	CreatedAt time.Time
	Docs      []Doc
}

// Doc is one processed corpus element. Index is its position in the input.
// Tagged is nil for runs processed without a tagger.
type Doc struct {
	Index      int
	Normalized string
	Sentences  []string
	Tokens     [][]string
	Tagged     [][]tagger.TaggedToken
}

// RunInfo summarizes a stored run
type RunInfo struct {
	ID        string
	CreatedAt time.Time
	DocCount  int
}
