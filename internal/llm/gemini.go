package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient sends each request as a single user turn through the genai Vertex AI
// backend.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, cfg VertexConfig) (*GeminiClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ExportCredentials(cfg.KeyPath); err != nil {
		return nil, err
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{cli: cli, model: cfg.Model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(toGenaiParts(req.Parts), genai.RoleUser)},
		nil,
	)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

func toGenaiParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			out = append(out, &genai.Part{InlineData: &genai.Blob{Data: p.Data, MIMEType: p.MIMEType}})
			continue
		}
		out = append(out, &genai.Part{Text: p.Text})
	}
	return out
}

// firstText reads the first candidate's first content part.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
