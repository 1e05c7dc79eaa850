package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		raw   string
		want  Label
		valid bool
	}{
		{"positive", Positive, true},
		{"negative", Negative, true},
		{"neutral", Neutral, true},
		{"  Positive \n", Positive, true},
		{"NEGATIVE", Negative, true},
		{"I think it is positive", "", false},
		{"", "", false},
		{"mixed", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLabel(tt.raw)
		assert.Equal(t, tt.valid, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestStaticClassifier(t *testing.T) {
	c := Static{Label: Fallback}
	assert.Equal(t, Neutral, c.Classify(context.Background(), "anything at all"))
}

func TestClassifierFunc(t *testing.T) {
	c := ClassifierFunc(func(_ context.Context, text string) Label {
		if text == "bad" {
			return Negative
		}
		return Positive
	})
	assert.Equal(t, Negative, c.Classify(context.Background(), "bad"))
	assert.Equal(t, Positive, c.Classify(context.Background(), "good"))
}
