// Package sentiment maps free-text feedback to exactly one label from a
// closed set. Classification is best-effort: any upstream failure or
// out-of-set answer resolves to the fallback label so submissions are never
// blocked on the model.
package sentiment

import (
	"context"
	"strings"
)

type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Fallback is assigned when classification fails or returns an
// unrecognized value.
const Fallback = Neutral

// ParseLabel trims and case-folds a raw model answer and checks it against
// the label set.
func ParseLabel(raw string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(raw))) {
	case Positive:
		return Positive, true
	case Negative:
		return Negative, true
	case Neutral:
		return Neutral, true
	}
	return "", false
}

// Classifier assigns a sentiment label to feedback text. Implementations
// never return an error; failures collapse to Fallback.
type Classifier interface {
	Classify(ctx context.Context, text string) Label
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string) Label

func (f ClassifierFunc) Classify(ctx context.Context, text string) Label {
	return f(ctx, text)
}

// Static always answers with a fixed label. It stands in for the model when
// no API key is configured.
type Static struct {
	Label Label
}

func (s Static) Classify(context.Context, string) Label {
	return s.Label
}
