package tagger

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// TaggedToken pairs a token with its part-of-speech tag.
type TaggedToken struct {
	Token string `json:"token"`
	Tag   string `json:"tag"`
}

// Tagger applies a frozen Model. It holds no mutable state and is safe for
// concurrent use.
type Tagger struct {
	model    *Model
	lexicon  map[string]string
	suffixes []Suffix
}

// New prepares a tagger from a validated model.
func New(m *Model) (*Tagger, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", internalerr.ErrModelUnavailable)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	suffixes := append([]Suffix(nil), m.Suffixes...)
	sort.SliceStable(suffixes, func(i, j int) bool {
		return len(suffixes[i].Suffix) > len(suffixes[j].Suffix)
	})

	lex := make(map[string]string, len(m.Lexicon))
	for w, tag := range m.Lexicon {
		lex[w] = tag
	}

	return &Tagger{model: m, lexicon: lex, suffixes: suffixes}, nil
}

// Name returns the model name.
func (t *Tagger) Name() string { return t.model.Name }

// Tag assigns one tag per token. The output has the same length and order
// as tokens.
func (t *Tagger) Tag(tokens []string) []TaggedToken {
	if len(tokens) == 0 {
		return nil
	}

	lower := cases.Lower(language.BrazilianPortuguese)
	words := make([]string, len(tokens))
	tags := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = lower.String(tok)
		tags[i] = t.initial(tok, words[i])
	}

	for _, r := range t.model.Rules {
		var hits []int
		for i := range tags {
			if tags[i] == r.From && matches(r.When, i, words, tags) {
				hits = append(hits, i)
			}
		}
		for _, i := range hits {
			tags[i] = r.To
		}
	}

	out := make([]TaggedToken, len(tokens))
	for i, tok := range tokens {
		out[i] = TaggedToken{Token: tok, Tag: tags[i]}
	}
	return out
}

// TagBatch tags every token list independently.
func (t *Tagger) TagBatch(lists [][]string) [][]TaggedToken {
	out := make([][]TaggedToken, len(lists))
	for i, toks := range lists {
		out[i] = t.Tag(toks)
	}
	return out
}

func (t *Tagger) initial(token, lower string) string {
	if tag, ok := t.lexicon[token]; ok {
		return tag
	}
	if tag, ok := t.lexicon[lower]; ok {
		return tag
	}
	for _, s := range t.suffixes {
		if len(lower) > len(s.Suffix) && strings.HasSuffix(lower, s.Suffix) {
			return s.Tag
		}
	}
	return t.model.DefaultTag
}

func matches(conds []Condition, i int, words, tags []string) bool {
	for _, c := range conds {
		if !holds(c, i, words, tags) {
			return false
		}
	}
	return true
}

func holds(c Condition, i int, words, tags []string) bool {
	for _, off := range c.Offsets {
		j := i + off
		if j < 0 || j >= len(tags) {
			continue
		}
		switch c.Feature {
		case FeaturePOS:
			if tags[j] == c.Value {
				return true
			}
		case FeatureWord:
			if words[j] == c.Value {
				return true
			}
		}
	}
	return false
}
