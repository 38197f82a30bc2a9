package segment

import (
	"iter"
	"sync"
)

// SentenceSeq is a lazily computed, finite sequence of sentences. It can be
// iterated any number of times; the split runs once.
type SentenceSeq struct {
	once      sync.Once
	compute   func() []string
	sentences []string
}

func newSentenceSeq(compute func() []string) *SentenceSeq {
	return &SentenceSeq{compute: compute}
}

func (q *SentenceSeq) load() []string {
	q.once.Do(func() {
		q.sentences = q.compute()
		q.compute = nil
	})
	return q.sentences
}

// All yields the sentences in order.
func (q *SentenceSeq) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, s := range q.load() {
			if !yield(s) {
				return
			}
		}
	}
}

// Len returns the number of sentences.
func (q *SentenceSeq) Len() int {
	return len(q.load())
}

// Strings returns a copy of the sentences.
func (q *SentenceSeq) Strings() []string {
	src := q.load()
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Each calls fn for every sentence with its position.
func (q *SentenceSeq) Each(fn func(i int, sentence string)) {
	for i, s := range q.load() {
		fn(i, s)
	}
}
