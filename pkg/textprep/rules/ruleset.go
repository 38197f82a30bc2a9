package rules

// Rule names, in default pipeline order.
const (
	NameLowercase    = "lowercase"
	NameWhitespace   = "whitespace"
	NameLinks        = "links"
	NameQuoteMarkers = "quote_markers"
	NameValues       = "values"
	NameDates        = "dates"
	NameCPF          = "cpf"
	NameCNPJ         = "cnpj"
)

// Rule is one named rewrite step of the normalization pipeline.
type Rule struct {
	Name string
	// Placeholder is the literal the rule substitutes, empty for rules that
	// only delete or reshape text.
	Placeholder string
	Apply       func(string) string
}

// Default returns the normalization rules in the order they must run.
// Each rule sees the output of the previous one.
func Default() []Rule {
	return []Rule{
		{Name: NameLowercase, Apply: Lowercase},
		{Name: NameWhitespace, Apply: CollapseWhitespace},
		withPlaceholder(NameLinks, LinkPlaceholder, ReplaceLinks),
		{Name: NameQuoteMarkers, Apply: RemoveQuoteMarkers},
		withPlaceholder(NameValues, ValuePlaceholder, ReplaceValues),
		withPlaceholder(NameDates, DatePlaceholder, ReplaceDates),
		withPlaceholder(NameCPF, CPFPlaceholder, ReplaceCPF),
		withPlaceholder(NameCNPJ, CNPJPlaceholder, ReplaceCNPJ),
	}
}

func withPlaceholder(name, placeholder string, fn func(string, string) string) Rule {
	return Rule{
		Name:        name,
		Placeholder: placeholder,
		Apply: func(text string) string {
			return fn(text, placeholder)
		},
	}
}

// Lookup returns the default rule with the given name.
func Lookup(name string) (Rule, bool) {
	for _, r := range Default() {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Placeholders maps each substituting rule name to its placeholder.
func Placeholders() map[string]string {
	out := make(map[string]string)
	for _, r := range Default() {
		if r.Placeholder != "" {
			out[r.Name] = r.Placeholder
		}
	}
	return out
}
