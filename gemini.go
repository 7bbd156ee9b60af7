package markvis

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// geminiGenerator calls the Gemini API through the genai SDK. The client
// is created on first use because construction needs a context.
type geminiGenerator struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

func newGeminiGenerator(apiKey string) *geminiGenerator {
	return &geminiGenerator{apiKey: apiKey}
}

func (g *geminiGenerator) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

// Generate sends prompt with the given system instruction and returns the
// concatenated text parts of the first candidate.
func (g *geminiGenerator) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Compile-time interface check.
var _ TextGenerator = (*geminiGenerator)(nil)
