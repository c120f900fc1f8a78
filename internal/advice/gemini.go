package advice

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/fingemini/internal/domain"
)

// DefaultModelName is the Gemini model used for financial commentary.
const DefaultModelName = "gemini-2.5-flash"

// GeminiAdvisor generates commentary with the Gemini API. The API key is
// read from the environment by the genai client.
type GeminiAdvisor struct {
	model string
	now   func() time.Time
}

// NewGeminiAdvisor creates an advisor for the given model; an empty model
// name selects DefaultModelName.
func NewGeminiAdvisor(model string) *GeminiAdvisor {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiAdvisor{model: model, now: time.Now}
}

// Advise implements Advisor.
func (a *GeminiAdvisor) Advise(ctx context.Context, snapshot domain.Snapshot) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Advise: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(snapshot, a.now())},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Advise: generate content: %w", err)
	}
	return resp.Text(), nil
}

// Ensure GeminiAdvisor implements the Advisor interface.
var _ Advisor = (*GeminiAdvisor)(nil)
