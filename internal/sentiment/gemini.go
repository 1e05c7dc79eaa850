package sentiment

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

const classifyPrompt = `Analyze the following student feedback and categorize it as either "positive", "negative", or "neutral".
Respond with ONLY one word: positive, negative, or neutral.

Feedback: %q`

// GeminiClassifier classifies feedback text with Google's Gemini API.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a Gemini-backed classifier.
func NewGeminiClassifier(apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClassifier{
		client: client,
		model:  model,
	}, nil
}

// Classify makes a single attempt against the model. No retries.
func (c *GeminiClassifier) Classify(ctx context.Context, text string) Label {
	prompt := fmt.Sprintf(classifyPrompt, text)

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("⚠️  Gemini classification failed, using fallback label: %v", err)
		return Fallback
	}

	label, ok := ParseLabel(result.Text())
	if !ok {
		log.Printf("⚠️  Gemini returned an unrecognized sentiment %q, using fallback label", result.Text())
		return Fallback
	}
	return label
}
