package segment

import (
	"strings"

	"github.com/dlclark/regexp2"
)

type substitution struct {
	re   *regexp2.Regexp
	repl string
}

func sub(expr, repl string) substitution {
	return substitution{re: regexp2.MustCompile(expr, regexp2.None), repl: repl}
}

// Treebank-style padding rules. Each inserts spaces around a punctuation
// class; the padded sentence is then split on whitespace.
var (
	openingQuotes = []substitution{
		sub("([«“‘„]|`+)", " $1 "),
		sub(`^"`, "``"),
		sub("(``)", " $1 "),
		sub(`([ (\[{<])("|'')`, "$1 `` "),
	}

	closingQuotes = []substitution{
		sub(`([»”’])`, " $1 "),
		sub(`''`, " '' "),
		sub(`"`, " '' "),
	}

	punctuation = []substitution{
		sub(`([^.])(\.)([\])}>"']*)\s*$`, "$1 $2 $3 "),
		sub(`([:,])([^\d])`, " $1 $2"),
		sub(`([:,])$`, " $1 "),
		sub(`\.{2,}`, " $0 "),
		sub(`[;@#$%&]`, " $0 "),
		sub(`[?!]`, " $0 "),
		sub(`([^'])' `, "$1 ' "),
		sub(`\*`, " $0 "),
		sub(`[\]\[(){}<>]`, " $0 "),
		sub(`--`, " -- "),
	}
)

// WordTokenizer splits one sentence into word tokens following Penn
// Treebank conventions. Only a sentence-final period is split off, so
// abbreviations inside the sentence keep their dot. Hyphenated clitics such
// as "disse-lhe" stay whole, and commas between digits ("1,5") are kept.
type WordTokenizer struct{}

// NewWordTokenizer returns a ready tokenizer. It holds no state.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Tokenize returns the tokens of sentence in left-to-right order.
func (w *WordTokenizer) Tokenize(sentence string) []string {
	if strings.TrimSpace(sentence) == "" {
		return nil
	}

	text := sentence
	for _, group := range [][]substitution{openingQuotes, punctuation, closingQuotes} {
		for _, s := range group {
			out, err := s.re.Replace(text, s.repl, -1, -1)
			if err != nil {
				continue
			}
			text = out
		}
	}

	return strings.Fields(text)
}
