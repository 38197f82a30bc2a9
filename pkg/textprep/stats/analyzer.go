package stats

import (
	"sort"
	"strings"

	"github.com/cognicore/textprep/pkg/textprep/ingest"
	"github.com/cognicore/textprep/pkg/textprep/rules"
)

// Analyzer aggregates corpus-level counts over processed documents. It is
// not safe for concurrent use.
type Analyzer struct {
	docs         int64
	emptyDocs    int64
	sentences    int64
	tokens       int64
	placeholders map[string]int64
	tags         map[string]int64
	placeholder  map[string]string
}

// Stats is a point-in-time report.
type Stats struct {
	Docs         int64            `json:"docs"`
	EmptyDocs    int64            `json:"empty_docs"`
	Sentences    int64            `json:"sentences"`
	Tokens       int64            `json:"tokens"`
	Placeholders map[string]int64 `json:"placeholders"`
	Tags         []TagCount       `json:"tags,omitempty"`
}

// TagCount is the frequency of one POS tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// NewAnalyzer creates an empty analyzer that counts the placeholders of
// the default rules.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		placeholders: make(map[string]int64),
		tags:         make(map[string]int64),
		placeholder:  rules.Placeholders(),
	}
}

// Process consumes one document.
func (a *Analyzer) Process(doc ingest.ProcessedDoc) {
	a.docs++
	if strings.TrimSpace(doc.Normalized) == "" {
		a.emptyDocs++
	}

	a.sentences += int64(len(doc.Sentences))
	for _, toks := range doc.Tokens {
		a.tokens += int64(len(toks))
	}

	for name, ph := range a.placeholder {
		if n := strings.Count(doc.Normalized, ph); n > 0 {
			a.placeholders[name] += int64(n)
		}
	}

	for _, sent := range doc.Tagged {
		for _, tt := range sent {
			a.tags[tt.Tag]++
		}
	}
}

// ProcessAll consumes docs in order.
func (a *Analyzer) ProcessAll(docs []ingest.ProcessedDoc) {
	for _, d := range docs {
		a.Process(d)
	}
}

// Snapshot returns the counts so far. Every placeholder rule appears in
// Placeholders, with zero when unseen. Tags are sorted by count, then tag.
func (a *Analyzer) Snapshot() Stats {
	s := Stats{
		Docs:         a.docs,
		EmptyDocs:    a.emptyDocs,
		Sentences:    a.sentences,
		Tokens:       a.tokens,
		Placeholders: make(map[string]int64, len(a.placeholder)),
	}
	for name := range a.placeholder {
		s.Placeholders[name] = a.placeholders[name]
	}

	for tag, n := range a.tags {
		s.Tags = append(s.Tags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(s.Tags, func(i, j int) bool {
		if s.Tags[i].Count != s.Tags[j].Count {
			return s.Tags[i].Count > s.Tags[j].Count
		}
		return s.Tags[i].Tag < s.Tags[j].Tag
	})
	return s
}
