package ingest

import (
	"fmt"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/segment"
	"github.com/cognicore/textprep/pkg/textprep/tagger"
)

// Pipeline orchestrates the full preparation flow:
// text → normalization → sentence split → word tokens → (optional) POS tags
type Pipeline struct {
	normalizer *Normalizer
	segmenter  *segment.Segmenter
	tagger     *tagger.Tagger
}

// NewPipeline creates a pipeline. The segmenter is required. A nil
// normalizer runs the default rules sequentially; a nil tg leaves documents
// untagged.
func NewPipeline(normalizer *Normalizer, segmenter *segment.Segmenter, tg *tagger.Tagger) (*Pipeline, error) {
	if segmenter == nil {
		return nil, fmt.Errorf("%w: pipeline needs a segmenter", internalerr.ErrInvalidConfig)
	}
	if normalizer == nil {
		normalizer = NewNormalizer(nil, 1)
	}
	return &Pipeline{
		normalizer: normalizer,
		segmenter:  segmenter,
		tagger:     tg,
	}, nil
}

// ProcessedDoc represents one corpus element after preparation
type ProcessedDoc struct {
	Index      int                    `json:"index"`
	Normalized string                 `json:"normalized"`
	Sentences  []string               `json:"sentences"`
	Tokens     [][]string             `json:"tokens"`
	Tagged     [][]tagger.TaggedToken `json:"tagged,omitempty"`
}

// Normalizer returns the normalizer the pipeline runs first.
func (p *Pipeline) Normalizer() *Normalizer { return p.normalizer }

// Segmenter returns the pipeline's segmenter.
func (p *Pipeline) Segmenter() *segment.Segmenter { return p.segmenter }

// Tagger returns the pipeline's tagger, or nil.
func (p *Pipeline) Tagger() *tagger.Tagger { return p.tagger }

// Process runs a document through the full pipeline
func (p *Pipeline) Process(text string) ProcessedDoc {
	// 1. Normalize (lowercase, whitespace, placeholders)
	doc := ProcessedDoc{Normalized: p.normalizer.Normalize(text)}

	// 2. Sentence split on the normalized text
	doc.Sentences = p.segmenter.Sentences(doc.Normalized)

	// 3. Tokenize each sentence
	doc.Tokens = make([][]string, len(doc.Sentences))
	for i, sent := range doc.Sentences {
		doc.Tokens[i] = p.segmenter.TokenizeSentence(sent)
	}

	// 4. Tag
	if p.tagger != nil {
		doc.Tagged = p.tagger.TagBatch(doc.Tokens)
	}

	return doc
}

// ProcessBatch processes every element independently; out[i] belongs to
// texts[i] and carries Index i.
func (p *Pipeline) ProcessBatch(texts []string) []ProcessedDoc {
	out := make([]ProcessedDoc, len(texts))
	forEach(len(texts), p.normalizer.workers, func(i int) {
		doc := p.Process(texts[i])
		doc.Index = i
		out[i] = doc
	})
	return out
}
