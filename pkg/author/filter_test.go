package author

import (
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/coauthor/pkg/ner"
)

func testKeywords(t *testing.T, list ...string) *Keywords {
	t.Helper()
	doc := "keywords:\n"
	for _, k := range list {
		doc += "  - " + k + "\n"
	}
	kw, err := ParseKeywords(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseKeywords() error = %v", err)
	}
	return kw
}

func person(text string) ner.EntitySpan {
	return ner.EntitySpan{Text: text, Label: ner.LabelPerson}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"jane smith", "Jane Smith"},
		{"JANE SMITH", "Jane Smith"},
		{"carlos ALVAREZ", "Carlos Alvarez"},
		{"  jane \n smith ", "Jane Smith"},
		{"maría lópez", "María López"},
		{"Jane Smith", "Jane Smith"},
		{"o'brien mcdonald", "O'Brien Mcdonald"},
		{"D’ANGELO ROSSI", "D’Angelo Rossi"},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Fatalf("Canonicalize(%q) got = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	for _, in := range []string{"jane smith", "ÉMILE zola", "li wei-ming", "o'brien mcdonald"} {
		once := Canonicalize(in)
		if twice := Canonicalize(string(once)); twice != once {
			t.Fatalf("Canonicalize(Canonicalize(%q)) got = %q, want %q", in, twice, once)
		}
	}
}

func TestCandidate(t *testing.T) {
	kw := testKeywords(t, "university", "institute", "email", "et al.")

	tests := []struct {
		name string
		raw  string
		want Decision
	}{
		{"accepted", "Jane Smith", Accepted},
		{"surrounding whitespace", "   Jane Smith\n", Accepted},
		{"keyword prefix", "University of Oslo", RejectedKeyword},
		{"keyword inside word", "Jane Institutesmith", RejectedKeyword},
		{"keyword upper case", "JANE EMAIL SMITH", RejectedKeyword},
		{"citation phrase", "Jane Smith et al.", RejectedKeyword},
		{"citation phrase upper case", "JANE SMITH ET AL.", RejectedKeyword},
		{"single token", "Christopherson", RejectedFragment},
		{"exactly eight runes", "Jan Smit", RejectedFragment},
		{"nine runes", "Jan Smith", Accepted},
		{"short after trim", "  Al Bo  ", RejectedFragment},
		{"empty", "", RejectedFragment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := Candidate(tt.raw, kw); got != tt.want {
				t.Fatalf("Candidate(%q) got = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCandidateCountsRunes(t *testing.T) {
	// Eight runes, but more than eight bytes.
	if _, got := Candidate("Žo Šmídá", nil); got != RejectedFragment {
		t.Fatalf("Candidate() got = %v, want %v", got, RejectedFragment)
	}
	if name, got := Candidate("žofie šmídová", nil); got != Accepted || name != "Žofie Šmídová" {
		t.Fatalf("Candidate() got = %q %v, want %q accepted", name, got, "Žofie Šmídová")
	}
}

func TestFilter(t *testing.T) {
	kw := testKeywords(t, "university", "institute")

	spans := []ner.EntitySpan{
		person("Jane Smith"),
		person("University of Oslo"),
		person("Bob"),
		person("carlos alvarez"),
		person("JANE SMITH"),
		{Text: "Maria Garcia Lopez", Label: ner.LabelOrganization},
		{Text: "Helsinki Finland", Label: ner.LabelLocation},
	}

	got := Filter(spans, kw).Sorted()
	want := []Name{"Carlos Alvarez", "Jane Smith"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter() got = %v, want %v", got, want)
	}
}

func TestFilterDefaultKeywordsCitation(t *testing.T) {
	kw, err := DefaultKeywords()
	if err != nil {
		t.Fatalf("DefaultKeywords() error = %v", err)
	}

	got := Filter([]ner.EntitySpan{person("Jane Smith"), person("Jane Smith et al.")}, kw).Sorted()
	want := []Name{"Jane Smith"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter() got = %v, want %v", got, want)
	}
}

func TestFilterFuncReportsDiscards(t *testing.T) {
	kw := testKeywords(t, "university")
	spans := []ner.EntitySpan{
		person("Jane Smith"),
		person("University Of Oslo"),
		person("Bob"),
		{Text: "Bob", Label: ner.LabelOrganization},
	}

	discarded := map[string]Decision{}
	got := FilterFunc(spans, kw, func(span ner.EntitySpan, d Decision) {
		discarded[span.Text] = d
	})

	if !reflect.DeepEqual(got.Sorted(), []Name{"Jane Smith"}) {
		t.Fatalf("FilterFunc() got = %v, want [Jane Smith]", got.Sorted())
	}
	want := map[string]Decision{"University Of Oslo": RejectedKeyword, "Bob": RejectedFragment}
	if !reflect.DeepEqual(discarded, want) {
		t.Fatalf("FilterFunc() discarded got = %v, want %v", discarded, want)
	}
}

func TestFilterEmpty(t *testing.T) {
	kw := testKeywords(t, "university")
	if got := Filter(nil, kw); len(got) != 0 {
		t.Fatalf("Filter(nil) got = %v, want empty", got)
	}
	spans := []ner.EntitySpan{person("Bob"), person("University College")}
	if got := Filter(spans, kw); len(got) != 0 {
		t.Fatalf("Filter() got = %v, want empty", got)
	}
}

func TestSetAdd(t *testing.T) {
	s := make(Set)
	if !s.Add("Jane Smith") {
		t.Fatalf("Add() got = false, want true")
	}
	if s.Add("Jane Smith") {
		t.Fatalf("Add() second insert got = true, want false")
	}
	if len(s) != 1 || !s.Has("Jane Smith") {
		t.Fatalf("Set got = %v, want one entry", s)
	}
}
