package paper

import (
	"errors"
	"reflect"
	"testing"
)

func TestFormatList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"empty", nil, "[]"},
		{"single", []string{"Ada Lovelace"}, "['Ada Lovelace']"},
		{"multiple", []string{"X", "Y", "Z"}, "['X', 'Y', 'Z']"},
		{"apostrophe uses double quotes", []string{"Charles O'Brien"}, `["Charles O'Brien"]`},
		{"both quotes escapes single", []string{`O'Neil "Ned"`}, `['O\'Neil "Ned"']`},
		{"backslash", []string{`a\b`}, `['a\\b']`},
		{"newline", []string{"a\nb"}, `['a\nb']`},
		{"unicode kept", []string{"Jürgen Schmidhuber"}, "['Jürgen Schmidhuber']"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatList(tt.items); got != tt.want {
				t.Errorf("FormatList(%q) = %s, want %s", tt.items, got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "[]", []string{}},
		{"empty with spaces", "  [ ]  ", []string{}},
		{"single quoted", "['Ada Lovelace', 'Alan Turing']", []string{"Ada Lovelace", "Alan Turing"}},
		{"double quoted", `["Charles O'Brien"]`, []string{"Charles O'Brien"}},
		{"mixed quotes", `['A', "B"]`, []string{"A", "B"}},
		{"trailing comma", "['A',]", []string{"A"}},
		{"no spaces", "['A','B']", []string{"A", "B"}},
		{"escapes", `['a\\b', 'c\'d', 'e\nf', 'g\x41', 'hé']`, []string{`a\b`, "c'd", "e\nf", "gA", "hé"}},
		{"comma inside item", "['Smith, J.']", []string{"Smith, J."}},
		{"long unicode escape", `['\U0001f600', '\u00e9']`, []string{"\U0001f600", "é"}},
		{"latin-1 hex escape", `['a\xa0b']`, []string{"a\u00a0b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseList(tt.input)
			if err != nil {
				t.Fatalf("ParseList(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseList_Errors(t *testing.T) {
	inputs := []string{
		"",
		"A, B",
		"['A'",
		"['A' 'B']",
		"['A'] extra",
		"[A]",
		"['unterminated]",
		`['bad \q escape']`,
		`['short \x4']`,
		`['short \U0001f60']`,
		`['\U00110000']`,
		`['\ud800']`,
		"[,]",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseList(input)
			if err == nil {
				t.Fatalf("ParseList(%q) expected error", input)
			}
			if !errors.Is(err, ErrListSyntax) {
				t.Errorf("ParseList(%q) error = %v, want ErrListSyntax", input, err)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"X"},
		{"X", "Y", "Z"},
		{"Charles O'Brien", `Say "hi"`, `O'Neil "Ned"`},
		{`back\slash`, "tab\there", "line\nbreak", "bell\a"},
		{"李雷", "Søren Kierkegaard", ""},
		{"emoji \U0001f600", "nbsp\u00a0", "del\x7f"},
	}

	for _, items := range cases {
		got, err := ParseList(FormatList(items))
		if err != nil {
			t.Fatalf("round trip of %q: %v", items, err)
		}
		if len(items) == 0 && len(got) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, items) {
			t.Errorf("round trip = %q, want %q", got, items)
		}
	}
}

func TestFormatList_InvalidUTF8(t *testing.T) {
	got, err := ParseList(FormatList([]string{"a\xffb", "ok"}))
	if err != nil {
		t.Fatalf("ParseList error = %v", err)
	}
	want := []string{"a\ufffdb", "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %q, want %q", got, want)
	}
}
