package author

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/OFFIS-RIT/coauthor/pkg/ner"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minNameLength is the exclusive lower bound on the rune length of a name.
const minNameLength = 8

// Name is a canonical author name. Two names are the same author iff they
// are equal.
type Name string

// Set is a deduplicated collection of author names from one document.
type Set map[Name]struct{}

// Add inserts n and reports whether it was new.
func (s Set) Add(n Name) bool {
	if _, ok := s[n]; ok {
		return false
	}
	s[n] = struct{}{}
	return true
}

func (s Set) Has(n Name) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the names in ascending order.
func (s Set) Sorted() []Name {
	names := make([]Name, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

type Decision int

const (
	Accepted Decision = iota
	// RejectedKeyword means the span contained an institution keyword.
	RejectedKeyword
	// RejectedFragment means the span had fewer than two words or was too short.
	RejectedFragment
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case RejectedKeyword:
		return "keyword"
	case RejectedFragment:
		return "fragment"
	}
	return "unknown"
}

// Canonicalize title-cases every word of name and joins them with single
// spaces. A letter following an apostrophe inside a word is upper-cased as
// well, so "o'brien" becomes "O'Brien".
func Canonicalize(name string) Name {
	caser := cases.Title(language.Und)
	titled := []rune(caser.String(strings.Join(strings.Fields(name), " ")))
	for i := 2; i < len(titled); i++ {
		if isApostrophe(titled[i-1]) && unicode.IsLetter(titled[i-2]) {
			titled[i] = unicode.ToTitle(titled[i])
		}
	}
	return Name(string(titled))
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// Candidate decides whether a single PERSON span is a plausible author name.
// The returned name is only meaningful when the decision is Accepted.
func Candidate(raw string, keywords *Keywords) (Name, Decision) {
	text := strings.TrimSpace(raw)

	if keywords != nil {
		if _, ok := keywords.Match(strings.ToLower(text)); ok {
			return "", RejectedKeyword
		}
	}

	if len(strings.Fields(text)) < 2 || utf8.RuneCountInString(text) <= minNameLength {
		return "", RejectedFragment
	}

	return Canonicalize(text), Accepted
}

// Filter returns the set of accepted author names among the PERSON spans.
// Spans with any other label are ignored.
func Filter(spans []ner.EntitySpan, keywords *Keywords) Set {
	return FilterFunc(spans, keywords, nil)
}

// FilterFunc is Filter with a callback invoked for every discarded PERSON
// span. onDiscard may be nil.
func FilterFunc(spans []ner.EntitySpan, keywords *Keywords, onDiscard func(span ner.EntitySpan, d Decision)) Set {
	set := make(Set)
	for _, span := range spans {
		if span.Label != ner.LabelPerson {
			continue
		}
		name, d := Candidate(span.Text, keywords)
		if d != Accepted {
			if onDiscard != nil {
				onDiscard(span, d)
			}
			continue
		}
		set.Add(name)
	}
	return set
}
