package config

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/ingest"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/resource"
	"github.com/cognicore/textprep/pkg/textprep/segment"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/sqlite"
	"github.com/cognicore/textprep/pkg/textprep/tagger"
)

// Loader resolves resources and constructs components
type Loader struct {
	Config File
	Logger *zap.Logger
}

// Components holds all loaded components
type Components struct {
	Normalizer *ingest.Normalizer
	Segmenter  *segment.Segmenter
	Tagger     *tagger.Tagger
	Pipeline   *ingest.Pipeline
	Store      store.Store
	Source     resource.Source
}

// Close releases the store, if one was opened.
func (c *Components) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load opens the store, reads model resources and returns initialized
// components. Any failure aborts; nothing partially built is returned.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := l.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{}

	// Open store
	if cfg.Resources.SQLite != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Resources.SQLite)
		if err != nil {
			log.Error("open store failed", zap.String("path", cfg.Resources.SQLite), zap.Error(err))
			return nil, fmt.Errorf("open store: %w", err)
		}
		comp.Store = st
		log.Info("store opened", zap.String("path", cfg.Resources.SQLite))
	}

	// Build resource chain: directory, then stored artifacts, then bundled data
	var sources []resource.Source
	if cfg.Resources.Dir != "" {
		sources = append(sources, resource.Dir(cfg.Resources.Dir))
	}
	if comp.Store != nil {
		sources = append(sources, resource.FromStore(comp.Store))
	}
	sources = append(sources, resource.Embedded())
	comp.Source = resource.Chain(sources...)

	comp.Normalizer = ingest.NewNormalizer(nil, cfg.Workers)

	// Load punkt bundle
	bundle, err := comp.Source.Read(ctx, cfg.Resources.Punkt)
	if err != nil {
		log.Error("punkt bundle unavailable", zap.String("key", cfg.Resources.Punkt), zap.Error(err))
		comp.Close()
		return nil, fmt.Errorf("load punkt bundle: %w", err)
	}
	comp.Segmenter, err = segment.New(bundle, comp.Normalizer)
	if err != nil {
		log.Error("punkt bundle rejected", zap.String("key", cfg.Resources.Punkt), zap.Error(err))
		comp.Close()
		return nil, fmt.Errorf("load punkt bundle: %w", err)
	}
	log.Info("punkt bundle loaded", zap.String("key", cfg.Resources.Punkt), zap.Int("bytes", len(bundle)))

	// Load tagger
	if cfg.Resources.Tagger != "" {
		comp.Tagger, err = loadTagger(ctx, comp.Source, cfg.Resources.Tagger)
		if err != nil {
			log.Error("tagger unavailable", zap.String("key", cfg.Resources.Tagger), zap.Error(err))
			comp.Close()
			return nil, err
		}
		log.Info("tagger loaded", zap.String("key", cfg.Resources.Tagger), zap.String("model", comp.Tagger.Name()))
	}

	comp.Pipeline, err = ingest.NewPipeline(comp.Normalizer, comp.Segmenter, comp.Tagger)
	if err != nil {
		comp.Close()
		return nil, err
	}
	return comp, nil
}

func loadTagger(ctx context.Context, src resource.Source, key string) (*tagger.Tagger, error) {
	data, err := src.Read(ctx, key)
	if errors.Is(err, internalerr.ErrResourceUnavailable) {
		return nil, fmt.Errorf("load tagger %s: %w: %w", key, internalerr.ErrModelUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load tagger %s: %w", key, err)
	}

	m, err := tagger.LoadModel(data)
	if err != nil {
		return nil, fmt.Errorf("load tagger %s: %w", key, err)
	}
	return tagger.New(m)
}
