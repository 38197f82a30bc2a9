package ingest

import (
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/textprep/pkg/textprep/rules"
)

// Normalizer folds an ordered rule list over text.
type Normalizer struct {
	rules   []rules.Rule
	workers int
}

// Step is the text as it stood after one rule ran.
type Step struct {
	Rule   string
	Output string
}

// NewNormalizer builds a normalizer from ruleset, or from rules.Default()
// when ruleset is nil. workers bounds batch parallelism; values <= 1 run
// batches sequentially.
func NewNormalizer(ruleset []rules.Rule, workers int) *Normalizer {
	if ruleset == nil {
		ruleset = rules.Default()
	}
	return &Normalizer{
		rules:   append([]rules.Rule(nil), ruleset...),
		workers: workers,
	}
}

// Rules returns the rules in execution order.
func (n *Normalizer) Rules() []rules.Rule {
	return append([]rules.Rule(nil), n.rules...)
}

// Workers returns the configured batch parallelism.
func (n *Normalizer) Workers() int { return n.workers }

// Normalize applies every rule in order. It never fails; empty input comes
// back empty.
func (n *Normalizer) Normalize(text string) string {
	for _, r := range n.rules {
		text = r.Apply(text)
	}
	return text
}

// Trace normalizes text and records the intermediate value after each rule.
func (n *Normalizer) Trace(text string) []Step {
	steps := make([]Step, 0, len(n.rules))
	for _, r := range n.rules {
		text = r.Apply(text)
		steps = append(steps, Step{Rule: r.Name, Output: text})
	}
	return steps
}

// NormalizeBatch normalizes every element independently. The result is a
// new slice; texts is left untouched and out[i] derives only from texts[i].
func (n *Normalizer) NormalizeBatch(texts []string) []string {
	out := make([]string, len(texts))
	forEach(len(texts), n.workers, func(i int) {
		out[i] = n.Normalize(texts[i])
	})
	return out
}

// forEach runs fn for 0..count-1 on at most workers goroutines. Callers
// write results by index, so completion order does not matter.
func forEach(count, workers int, fn func(i int)) {
	if workers <= 1 || count < 2 {
		for i := 0; i < count; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
