package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/tagger"
)

type artifact struct {
	data    []byte
	updated time.Time
}

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu        sync.RWMutex
	artifacts map[string]artifact
	runs      map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		artifacts: make(map[string]artifact),
		runs:      make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutArtifact implements store.Store.
func (s *Store) PutArtifact(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("%w: empty artifact key", internalerr.ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.artifacts[key] = artifact{data: append([]byte(nil), data...), updated: time.Now().UTC()}
	return nil
}

// GetArtifact implements store.Store.
func (s *Store) GetArtifact(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artifacts[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), a.data...), true, nil
}

// ListArtifacts implements store.Store.
func (s *Store) ListArtifacts(ctx context.Context) ([]store.ArtifactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.ArtifactInfo, 0, len(s.artifacts))
	for key, a := range s.artifacts {
		out = append(out, store.ArtifactInfo{Key: key, Size: int64(len(a.data)), UpdatedAt: a.updated})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// SaveRun implements store.Store.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty run id", internalerr.ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun implements store.Store.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// ListRuns implements store.Store.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.RunInfo, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, store.RunInfo{ID: r.ID, CreatedAt: r.CreatedAt, DocCount: len(r.Docs)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyRun(r store.Run) store.Run {
	docs := make([]store.Doc, len(r.Docs))
	for i, d := range r.Docs {
		docs[i] = store.Doc{
			Index:      d.Index,
			Normalized: d.Normalized,
			Sentences:  append([]string(nil), d.Sentences...),
			Tokens:     copyTokens(d.Tokens),
			Tagged:     copyTagged(d.Tagged),
		}
	}
	r.Docs = docs
	return r
}

func copyTagged(in [][]tagger.TaggedToken) [][]tagger.TaggedToken {
	if in == nil {
		return nil
	}
	out := make([][]tagger.TaggedToken, len(in))
	for i, sent := range in {
		out[i] = append([]tagger.TaggedToken(nil), sent...)
	}
	return out
}

func copyTokens(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, toks := range in {
		out[i] = append([]string(nil), toks...)
	}
	return out
}
