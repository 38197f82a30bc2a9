package resource

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// Well-known resource keys
const (
	PunktPortuguese = "punkt/portuguese.json"
	TaggerModel     = "POS_tagger_brill.yaml"
)

//go:embed data
var bundled embed.FS

// Source resolves a resource key to its bytes. A missing key is reported as
// internalerr.ErrResourceUnavailable.
type Source interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

type dirSource struct {
	root string
}

// Dir reads resources from files below root.
func Dir(root string) Source {
	return dirSource{root: root}
}

func (d dirSource) Read(ctx context.Context, key string) ([]byte, error) {
	if !fs.ValidPath(key) {
		return nil, fmt.Errorf("%w: invalid key %q", internalerr.ErrResourceUnavailable, key)
	}
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not in %s", internalerr.ErrResourceUnavailable, key, d.root)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

type embeddedSource struct{}

// Embedded serves the resources compiled into the binary. Only the
// Portuguese punkt bundle ships this way.
func Embedded() Source {
	return embeddedSource{}
}

func (embeddedSource) Read(ctx context.Context, key string) ([]byte, error) {
	if !fs.ValidPath(key) {
		return nil, fmt.Errorf("%w: invalid key %q", internalerr.ErrResourceUnavailable, key)
	}
	data, err := fs.ReadFile(bundled, path.Join("data", key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s not bundled", internalerr.ErrResourceUnavailable, key)
	}
	return data, nil
}

type storeSource struct {
	st store.Store
}

// FromStore reads resources from the artifact table of st.
func FromStore(st store.Store) Source {
	return storeSource{st: st}
}

func (s storeSource) Read(ctx context.Context, key string) ([]byte, error) {
	data, found, err := s.st.GetArtifact(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", key, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: artifact %s", internalerr.ErrResourceUnavailable, key)
	}
	return data, nil
}

type chain []Source

// Chain tries each source in order and returns the first hit. Only
// ErrResourceUnavailable falls through; other errors stop the lookup.
func Chain(sources ...Source) Source {
	var c chain
	for _, s := range sources {
		if s != nil {
			c = append(c, s)
		}
	}
	return c
}

func (c chain) Read(ctx context.Context, key string) ([]byte, error) {
	for _, s := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.Read(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, internalerr.ErrResourceUnavailable) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", internalerr.ErrResourceUnavailable, key)
}
