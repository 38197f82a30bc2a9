package rules

import (
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder literals substituted by the default pipeline. None of them
// contains a digit, a dot or a slash, so no pattern below can match them.
const (
	LinkPlaceholder  = "regexlink"
	ValuePlaceholder = "regexvalor"
	DatePlaceholder  = "regexdata"
	CPFPlaceholder   = "regexcpf"
	CNPJPlaceholder  = "regexcnpj"
)

// QuoteMarker is the escaped double-quote literal left behind by the
// exporting system at the edges of a record.
const QuoteMarker = "chr(34)"

var (
	whitespacePattern = compile(`\s+`)
	linkPattern       = compile(`https?://\S+|www\.\S+`)
	quoteStartPattern = compile(`^(?:chr\(34\))+`)
	quoteEndPattern   = compile(`(?:chr\(34\))+$`)
	valuePattern      = compile(`\b\d{1,3}(?:\.\d{3})*,\d{1,2}\b`)
	datePattern       = compile(`\b(?:\d{2}\.\d{2}\.\d{4}|\d{2}/\d{2}/\d{4}|\d{2}\.\d{4}|\d{2}/\d{4}|\d{2}/\d{2}/\d{2}|\d{2}/\d{1}/\d{4}|\d{1}/\d{1}/\d{4})\b`)
	cpfPattern        = compile(`\b\d{3}\.?\d{3}\.?\d{3}(?:-| )?\d{2}\b`)
	cnpjPattern       = compile(`\b0?\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b|\b0?\d{8}/?\d{6}\b`)
)

// compile builds a case-insensitive backtracking matcher. regexp2 keeps
// \b, \d and \s Unicode-aware, which RE2 does not.
func compile(expr string) *regexp2.Regexp {
	return regexp2.MustCompile(expr, regexp2.IgnoreCase)
}

// replace substitutes every non-overlapping match, scanning left to right.
// The replacement is literal. An engine error leaves the text untouched.
func replace(re *regexp2.Regexp, text, replacement string) string {
	if text == "" {
		return text
	}
	out, err := re.Replace(text, strings.ReplaceAll(replacement, "$", "$$"), -1, -1)
	if err != nil {
		return text
	}
	return out
}

// Lowercase folds text to lower case using Portuguese casing rules.
func Lowercase(text string) string {
	if text == "" {
		return text
	}
	// Casers keep state and must not be shared across goroutines.
	return cases.Lower(language.BrazilianPortuguese).String(text)
}

// CollapseWhitespace replaces every run of whitespace with a single space.
func CollapseWhitespace(text string) string {
	return replace(whitespacePattern, text, " ")
}

// ReplaceLinks substitutes http(s) URLs and www. hosts with placeholder.
func ReplaceLinks(text, placeholder string) string {
	return replace(linkPattern, text, placeholder)
}

// RemoveLinks deletes http(s) URLs and www. hosts.
func RemoveLinks(text string) string {
	return replace(linkPattern, text, "")
}

// RemoveQuoteMarkers strips QuoteMarker from the very start and the very end
// of text. Interior markers are kept. A stacked run at either edge is removed
// as a whole.
func RemoveQuoteMarkers(text string) string {
	text = replace(quoteStartPattern, text, "")
	return replace(quoteEndPattern, text, "")
}

// ReplaceValues substitutes Brazilian-locale decimals such as 1.234,56 or 99,9.
func ReplaceValues(text, placeholder string) string {
	return replace(valuePattern, text, placeholder)
}

// ReplaceDates substitutes date-like digit groups separated by '.' or '/'.
// Matching is lexical: 13/2020 and 99/99/9999 are dates too.
func ReplaceDates(text, placeholder string) string {
	return replace(datePattern, text, placeholder)
}

// ReplaceCPF substitutes individual taxpayer IDs: 3+3+3 digits with optional
// dots, an optional hyphen or space, then 2 digits. Eleven bare digits match.
func ReplaceCPF(text, placeholder string) string {
	return replace(cpfPattern, text, placeholder)
}

// ReplaceCNPJ substitutes corporate taxpayer IDs, either grouped
// (00.000.000/0000-00 with optional separators) or concatenated 8+6 digits,
// both with an optional leading zero.
func ReplaceCNPJ(text, placeholder string) string {
	return replace(cnpjPattern, text, placeholder)
}
