// Package ner defines the entity recognition boundary: a recognizer turns
// document text into labeled spans, and only PERSON spans are of interest
// for the co-authorship graph.
package ner

import (
	"context"
	"fmt"
	"strings"
)

// Label is the entity class assigned to a span.
type Label string

const (
	LabelPerson       Label = "PERSON"
	LabelOrganization Label = "ORGANIZATION"
	LabelLocation     Label = "LOCATION"
	LabelOther        Label = "OTHER"
)

// ParseLabel maps a model-provided label onto the known set. Unknown labels
// become LabelOther. "PER" and "ORG" are accepted as aliases.
func ParseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERSON", "PER":
		return LabelPerson
	case "ORGANIZATION", "ORGANISATION", "ORG":
		return LabelOrganization
	case "LOCATION", "LOC", "GPE":
		return LabelLocation
	default:
		return LabelOther
	}
}

// EntitySpan is one recognized entity: the raw span text and its label.
type EntitySpan struct {
	Text  string
	Label Label
}

// EntityRecognizer finds named entities in text. Implementations must not
// keep per-call state.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]EntitySpan, error)
}

// ModelInitError reports that the recognition model could not be loaded.
// It is fatal: no document is processed without a model.
type ModelInitError struct {
	Model string
	Err   error
}

func (e *ModelInitError) Error() string {
	return fmt.Sprintf("failed to initialize entity recognition model %q: %v", e.Model, e.Err)
}

func (e *ModelInitError) Unwrap() error {
	return e.Err
}
