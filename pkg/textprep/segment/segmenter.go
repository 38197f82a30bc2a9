package segment

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Normalizer rewrites raw text before sentence detection.
type Normalizer interface {
	Normalize(text string) string
}

type identity struct{}

func (identity) Normalize(text string) string { return text }

// Segmenter turns text into sentences and tokens using a punkt model
// trained for Portuguese and a treebank-style word tokenizer.
type Segmenter struct {
	punkt      *sentences.DefaultSentenceTokenizer
	words      *WordTokenizer
	normalizer Normalizer
}

// New loads a punkt training bundle (JSON) and returns a Segmenter.
// A nil normalizer leaves text untouched before sentence detection.
func New(bundle []byte, normalizer Normalizer) (*Segmenter, error) {
	if len(bundle) == 0 {
		return nil, fmt.Errorf("%w: empty punkt bundle", internalerr.ErrResourceUnavailable)
	}

	storage, err := sentences.LoadTraining(bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: punkt bundle: %v", internalerr.ErrResourceUnavailable, err)
	}

	if normalizer == nil {
		normalizer = identity{}
	}

	return &Segmenter{
		punkt:      sentences.NewSentenceTokenizer(storage),
		words:      NewWordTokenizer(),
		normalizer: normalizer,
	}, nil
}

// SplitIntoSentences normalizes text and splits the result into sentences.
// The returned sequence is computed on first use.
func (s *Segmenter) SplitIntoSentences(text string) *SentenceSeq {
	return newSentenceSeq(func() []string {
		return s.Sentences(s.normalizer.Normalize(text))
	})
}

// Sentences splits text as-is, without normalization. Surrounding
// whitespace is trimmed from each sentence and blank sentences are dropped.
func (s *Segmenter) Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	for _, sent := range s.punkt.Tokenize(text) {
		t := strings.TrimSpace(sent.Text)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitIntoTokens splits text into sentences, then each sentence into
// words, returning one flat token list. Text is not normalized.
func (s *Segmenter) SplitIntoTokens(text string) []string {
	var tokens []string
	for _, sent := range s.Sentences(text) {
		tokens = append(tokens, s.words.Tokenize(sent)...)
	}
	return tokens
}

// SplitCorpusIntoTokens tokenizes every element of corpus independently.
// Elements are tokenized raw; callers wanting normalized tokens must
// normalize first. output[i] always belongs to corpus[i].
func (s *Segmenter) SplitCorpusIntoTokens(corpus []string) [][]string {
	out := make([][]string, len(corpus))
	for i, text := range corpus {
		out[i] = s.SplitIntoTokens(text)
	}
	return out
}

// TokenizeSentence splits a single sentence into words.
func (s *Segmenter) TokenizeSentence(sentence string) []string {
	return s.words.Tokenize(sentence)
}
