package s2

import "testing"

func TestParsePaperID(t *testing.T) {
	tests := []struct {
		input     string
		wantType  string
		wantValue string
		wantStr   string
	}{
		{"DOI:10.1038/nature12373", "DOI", "10.1038/nature12373", "DOI:10.1038/nature12373"},
		{"doi:10.1038/x", "DOI", "10.1038/x", "DOI:10.1038/x"},
		{"ARXIV:2106.15928", "ARXIV", "2106.15928", "ARXIV:2106.15928"},
		{"PMID:19872477", "PMID", "19872477", "PMID:19872477"},
		{"CorpusId:215416146", "CorpusId", "215416146", "CorpusId:215416146"},
		{"http://arxiv.org/abs/1912.01703v1", "ARXIV", "1912.01703", "ARXIV:1912.01703"},
		{"https://arxiv.org/pdf/1912.01703v2.pdf", "ARXIV", "1912.01703", "ARXIV:1912.01703"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "ARXIV", "hep-th/9901001", "ARXIV:hep-th/9901001"},
		{"649def34f8be52c8b66281af98ae884c09aef38b", "S2", "649def34f8be52c8b66281af98ae884c09aef38b", "649def34f8be52c8b66281af98ae884c09aef38b"},
		{"  1912.01703 ", "LOCAL", "1912.01703", "1912.01703"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParsePaperID(tt.input)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", got.Value, tt.wantValue)
			}
			if got.String() != tt.wantStr {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantStr)
			}
		})
	}
}

func TestFromArxivURL(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"http://arxiv.org/abs/1912.01703v1", "1912.01703", true},
		{"http://arxiv.org/abs/1912.01703", "1912.01703", true},
		{"https://export.arxiv.org/abs/2002.00001v12", "2002.00001", true},
		{"https://example.com/abs/1912.01703", "", false},
		{"1912.01703", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := FromArxivURL(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromArxivURL(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1038/Nature12373", "10.1038/nature12373"},
		{"https://doi.org/10.1038/X", "10.1038/x"},
		{"http://doi.org/10.1/a", "10.1/a"},
		{"doi.org/10.1/a", "10.1/a"},
		{"DOI:10.1/A", "10.1/a"},
		{"  10.1/a  ", "10.1/a"},
	}

	for _, tt := range tests {
		if got := NormalizeDOI(tt.input); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
