package rules

import (
	"strings"
	"testing"
)

func TestReplaceLinks(t *testing.T) {
	got := ReplaceLinks("visite http://ex.com hoje", LinkPlaceholder)
	if got != "visite regexlink hoje" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "http://ex.com") {
		t.Error("link should be gone")
	}
}

func TestReplaceLinksWWWCaseInsensitive(t *testing.T) {
	got := ReplaceLinks("veja WWW.Site.com.br/x?a=1, ok", "L")
	if got != "veja L ok" {
		t.Errorf("got %q", got)
	}
}

func TestReplaceLinksMultiple(t *testing.T) {
	got := ReplaceLinks("https://a.com e https://b.com/x", "L")
	if got != "L e L" {
		t.Errorf("got %q", got)
	}
}

func TestReplaceLinksPlaceholderIsLiteral(t *testing.T) {
	got := ReplaceLinks("ver http://x.com", "$1$0")
	if got != "ver $1$0" {
		t.Errorf("placeholder should be inserted literally, got %q", got)
	}
}

func TestRemoveLinks(t *testing.T) {
	got := RemoveLinks("a https://x.y b")
	if got != "a  b" {
		t.Errorf("got %q", got)
	}
	if RemoveLinks("sem links aqui") != "sem links aqui" {
		t.Error("text without links should be unchanged")
	}
}

func TestRemoveQuoteMarkers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chr(34)hello chr(34)", "hello "},
		{"chr(34)texto", "texto"},
		{"texto chr(34)", "texto "},
		{"a chr(34) b", "a chr(34) b"},
		{"chr(34)", ""},
		{"chr(34)chr(34)x", "x"},
		{"xchr(34)chr(34)", "x"},
		{" chr(34)x", " chr(34)x"},
		{"CHR(34)x", "x"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RemoveQuoteMarkers(tt.in); got != tt.want {
			t.Errorf("RemoveQuoteMarkers(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceValues(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"total: 1.234,56 reais", "total: V reais"},
		{"nota 99,9", "nota V"},
		{"1.234.567,8 e 3,50", "V e V"},
		{"1.234,567", "1.234,567"},
		{"sem valor 1234", "sem valor 1234"},
		{"1.234", "1.234"},
	}

	for _, tt := range tests {
		if got := ReplaceValues(tt.in, "V"); got != tt.want {
			t.Errorf("ReplaceValues(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceDates(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"nascido em 01/02/2020", "nascido em D"},
		{"01.02.2020", "D"},
		{"competência 03.2021", "competência D"},
		{"mes 13/2020 inválido", "mes D inválido"},
		{"31/12/99", "D"},
		{"01/2/2020", "D"},
		{"1/2/2020", "D"},
		{"99/99/9999", "D"},
		{"2020/01/01", "2020/01/01"},
	}

	for _, tt := range tests {
		if got := ReplaceDates(tt.in, "D"); got != tt.want {
			t.Errorf("ReplaceDates(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceCPF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cpf 123.456.789-09", "cpf C"},
		{"cpf 12345678909", "cpf C"},
		{"cpf 123.456.789 09", "cpf C"},
		{"cpf 123456789-09", "cpf C"},
		{"cpf 123 456 789 09", "cpf 123 456 789 09"},
		{"cpf 123-456-789-09", "cpf 123-456-789-09"},
		{"cpf 1234567890", "cpf 1234567890"},
	}

	for _, tt := range tests {
		if got := ReplaceCPF(tt.in, "C"); got != tt.want {
			t.Errorf("ReplaceCPF(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceCNPJ(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cnpj 12.345.678/0001-95", "cnpj J"},
		{"cnpj 12345678000195", "cnpj J"},
		{"cnpj 012.345.678/0001-95", "cnpj J"},
		{"cnpj 12345678/000195", "cnpj J"},
		{"cnpj 12.345", "cnpj 12.345"},
	}

	for _, tt := range tests {
		if got := ReplaceCNPJ(tt.in, "J"); got != tt.want {
			t.Errorf("ReplaceCNPJ(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("a  b\t\tc\n\nd  e")
	if got != "a b c d e" {
		t.Errorf("got %q", got)
	}
}

func TestLowercase(t *testing.T) {
	if got := Lowercase("AÇÃO É ÓTIMA"); got != "ação é ótima" {
		t.Errorf("got %q", got)
	}
}

func TestEmptyInputNeverChanges(t *testing.T) {
	for _, r := range Default() {
		if got := r.Apply(""); got != "" {
			t.Errorf("rule %s changed empty input to %q", r.Name, got)
		}
	}
}

func TestPlaceholdersNotMatchedByPatterns(t *testing.T) {
	all := []string{LinkPlaceholder, ValuePlaceholder, DatePlaceholder, CPFPlaceholder, CNPJPlaceholder}
	for _, p := range all {
		for _, r := range Default() {
			if got := r.Apply(p); got != p {
				t.Errorf("rule %s rewrote placeholder %q to %q", r.Name, p, got)
			}
		}
	}
}
