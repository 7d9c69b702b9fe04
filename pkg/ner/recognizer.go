package ner

import (
	"context"
	"strings"
	"time"

	"github.com/OFFIS-RIT/coauthor/internal/util"
	"github.com/OFFIS-RIT/coauthor/pkg/ai"
)

const (
	defaultMaxRetries    = 3
	defaultMaxInputChars = 20000
	retryBackoff         = 2 * time.Second
)

type recognizedEntity struct {
	Text  string `json:"text" jsonschema_description:"The entity exactly as written in the text"`
	Label string `json:"label" jsonschema:"enum=PERSON,enum=ORGANIZATION,enum=LOCATION,enum=OTHER" jsonschema_description:"Entity class"`
}

type recognizeResponse struct {
	Entities []recognizedEntity `json:"entities" jsonschema_description:"Entities found in the text, in order of appearance"`
}

// AIRecognizer implements EntityRecognizer on top of a structured-output
// language model.
type AIRecognizer struct {
	client        ai.GraphAIClient
	model         string
	thinking      string
	maxRetries    int
	maxInputChars int
	backoff       time.Duration
}

// NewAIRecognizerParams configures an AIRecognizer.
//
// Model overrides the client's extraction model when set. Thinking is passed
// through as the reasoning effort of the model.
// MaxRetries defaults to 3, MaxInputChars to 20000.
type NewAIRecognizerParams struct {
	Client        ai.GraphAIClient
	Model         string
	Thinking      string
	MaxRetries    int
	MaxInputChars int
}

func NewAIRecognizer(params NewAIRecognizerParams) *AIRecognizer {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	maxInput := params.MaxInputChars
	if maxInput <= 0 {
		maxInput = defaultMaxInputChars
	}
	return &AIRecognizer{
		client:        params.Client,
		model:         params.Model,
		thinking:      params.Thinking,
		maxRetries:    maxRetries,
		maxInputChars: maxInput,
		backoff:       retryBackoff,
	}
}

func (r *AIRecognizer) options() []ai.GenerateOption {
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(recognizePrompt),
		ai.WithTemperature(0),
	}
	if r.model != "" {
		opts = append(opts, ai.WithModel(r.model))
	}
	if r.thinking != "" {
		opts = append(opts, ai.WithThinking(r.thinking))
	}
	return opts
}

// Init loads the recognition model. It must succeed once before the corpus
// is processed; a failure is returned as *ModelInitError.
func (r *AIRecognizer) Init(ctx context.Context) error {
	if err := r.client.LoadModel(ctx, r.options()...); err != nil {
		return &ModelInitError{Model: r.model, Err: err}
	}
	return nil
}

// Recognize returns the entity spans the model finds in text. Spans with
// empty text are dropped; unknown labels become LabelOther.
func (r *AIRecognizer) Recognize(ctx context.Context, text string) ([]EntitySpan, error) {
	text = util.Truncate(strings.TrimSpace(text), r.maxInputChars)
	if text == "" {
		return nil, nil
	}

	res, err := util.RetryWithContext(ctx, r.maxRetries, r.backoff, func(ctx context.Context) (recognizeResponse, error) {
		var res recognizeResponse
		err := r.client.GenerateCompletionWithFormat(
			ctx,
			"recognize_entities",
			"Recognize named entities in the title pages of an academic paper.",
			text,
			&res,
			r.options()...,
		)
		return res, err
	})
	if err != nil {
		return nil, err
	}

	spans := make([]EntitySpan, 0, len(res.Entities))
	for _, e := range res.Entities {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		spans = append(spans, EntitySpan{
			Text:  e.Text,
			Label: ParseLabel(e.Label),
		})
	}
	return spans, nil
}
