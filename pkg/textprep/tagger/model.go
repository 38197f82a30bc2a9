package tagger

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Model is a frozen Brill tagger: an initial lexicon/suffix tagger plus an
// ordered list of transformation rules.
type Model struct {
	Name       string            `yaml:"name"`
	DefaultTag string            `yaml:"default_tag"`
	Lexicon    map[string]string `yaml:"lexicon"`
	Suffixes   []Suffix          `yaml:"suffixes"`
	Rules      []Rule            `yaml:"rules"`
}

// Suffix assigns Tag to unknown words ending in Suffix.
type Suffix struct {
	Suffix string `yaml:"suffix"`
	Tag    string `yaml:"tag"`
}

// Rule rewrites From to To wherever every condition holds.
type Rule struct {
	From string      `yaml:"from"`
	To   string      `yaml:"to"`
	When []Condition `yaml:"when"`
}

// Condition holds when any position at one of Offsets (relative to the
// current token) has Feature equal to Value.
type Condition struct {
	Feature string `yaml:"feature"`
	Offsets []int  `yaml:"offsets"`
	Value   string `yaml:"value"`
}

// Condition features
const (
	FeaturePOS  = "pos"
	FeatureWord = "word"
)

// LoadModel parses and validates a YAML model. Any problem is reported as
// internalerr.ErrModelCorrupt.
func LoadModel(data []byte) (*Model, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty model", internalerr.ErrModelCorrupt)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Model
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrModelCorrupt, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the model is usable.
func (m *Model) Validate() error {
	if m.DefaultTag == "" {
		return fmt.Errorf("%w: default_tag is required", internalerr.ErrModelCorrupt)
	}
	for i, s := range m.Suffixes {
		if s.Suffix == "" || s.Tag == "" {
			return fmt.Errorf("%w: suffix %d needs suffix and tag", internalerr.ErrModelCorrupt, i)
		}
	}
	for i, r := range m.Rules {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("%w: rule %d needs from and to", internalerr.ErrModelCorrupt, i)
		}
		for j, c := range r.When {
			if c.Feature != FeaturePOS && c.Feature != FeatureWord {
				return fmt.Errorf("%w: rule %d condition %d: unknown feature %q", internalerr.ErrModelCorrupt, i, j, c.Feature)
			}
			if len(c.Offsets) == 0 {
				return fmt.Errorf("%w: rule %d condition %d: no offsets", internalerr.ErrModelCorrupt, i, j)
			}
		}
	}
	return nil
}
