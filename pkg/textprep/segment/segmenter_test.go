package segment

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

type lower struct{}

func (lower) Normalize(text string) string { return strings.ToLower(text) }

func loadSegmenter(t *testing.T, n Normalizer) *Segmenter {
	t.Helper()
	bundle, err := os.ReadFile("../resource/data/punkt/portuguese.json")
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	s, err := New(bundle, n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsBadBundle(t *testing.T) {
	for _, bundle := range [][]byte{nil, []byte("not json")} {
		if _, err := New(bundle, nil); !errors.Is(err, internalerr.ErrResourceUnavailable) {
			t.Errorf("New(%q): expected ErrResourceUnavailable, got %v", bundle, err)
		}
	}
}

func TestSplitIntoSentences(t *testing.T) {
	s := loadSegmenter(t, nil)

	seq := s.SplitIntoSentences("Isto é uma frase. Isto é outra.")
	want := []string{"Isto é uma frase.", "Isto é outra."}
	if got := seq.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %q, want %q", got, want)
	}

	// restartable
	var again []string
	for sent := range seq.All() {
		again = append(again, sent)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("second pass = %q, want %q", again, want)
	}
	if seq.Len() != 2 {
		t.Errorf("Len = %d", seq.Len())
	}
}

func TestSplitIntoSentencesNormalizes(t *testing.T) {
	s := loadSegmenter(t, lower{})

	got := s.SplitIntoSentences("Bom Dia. Boa Noite.").Strings()
	want := []string{"bom dia.", "boa noite."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %q, want %q", got, want)
	}
}

func TestSplitIntoSentencesEmpty(t *testing.T) {
	s := loadSegmenter(t, nil)

	seq := s.SplitIntoSentences("")
	if seq.Len() != 0 {
		t.Errorf("expected empty sequence, got %q", seq.Strings())
	}
	count := 0
	seq.Each(func(int, string) { count++ })
	if count != 0 {
		t.Errorf("Each visited %d sentences", count)
	}
}

func TestAbbreviationDoesNotSplit(t *testing.T) {
	s := loadSegmenter(t, nil)

	got := s.Sentences("O Sr. Silva chegou. Ele saiu.")
	want := []string{"O Sr. Silva chegou.", "Ele saiu."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %q, want %q", got, want)
	}
}

func TestSplitIntoTokens(t *testing.T) {
	s := loadSegmenter(t, lower{})

	got := s.SplitIntoTokens("Isto é ótimo. Sim!")
	want := []string{"Isto", "é", "ótimo", ".", "Sim", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %q, want %q", got, want)
	}
}

func TestSplitCorpusIntoTokensKeepsRawText(t *testing.T) {
	s := loadSegmenter(t, lower{})

	corpus := []string{"Olá Mundo.", "", "chr(34)Oi"}
	got := s.SplitCorpusIntoTokens(corpus)

	if len(got) != len(corpus) {
		t.Fatalf("expected %d results, got %d", len(corpus), len(got))
	}
	if !reflect.DeepEqual(got[0], []string{"Olá", "Mundo", "."}) {
		t.Errorf("corpus[0] tokens = %q", got[0])
	}
	if len(got[1]) != 0 {
		t.Errorf("corpus[1] tokens = %q", got[1])
	}
	if !reflect.DeepEqual(got[2], []string{"chr", "(", "34", ")", "Oi"}) {
		t.Errorf("corpus[2] tokens = %q", got[2])
	}
}
