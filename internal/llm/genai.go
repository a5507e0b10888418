package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIProvider implements Provider using the official Google GenAI SDK.
type GenAIProvider struct {
	client *genai.Client
	model  string
}

// NewGenAIProvider creates a Gemini provider backed by google.golang.org/genai.
func NewGenAIProvider(apiKey, model string) (*GenAIProvider, error) {
	return newGenAIProvider(apiKey, model, "")
}

// newGenAIProvider allows overriding the API endpoint; an empty baseURL
// keeps the SDK default.
func newGenAIProvider(apiKey, model, baseURL string) (*GenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIProvider{client: client, model: model}, nil
}

func (p *GenAIProvider) Name() string {
	return "genai"
}

func genaiParts(msg Message) []*genai.Part {
	parts := make([]*genai.Part, 0, len(msg.Attachments)+1)
	for _, a := range msg.Attachments {
		parts = append(parts, genai.NewPartFromBytes(a.Data, a.MIMEType))
	}
	if msg.Content != "" || len(parts) == 0 {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}
	return parts
}

func (p *GenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	// Zero temperature leaves the model default in place.
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature != 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	var system []*genai.Part
	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, genai.NewPartFromText(msg.Content))
		case RoleUser:
			contents = append(contents, genai.NewContentFromParts(genaiParts(msg), genai.RoleUser))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromParts(genaiParts(msg), genai.RoleModel))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromParts(system, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai generate failed: %w", err)
	}

	out := &CompletionResponse{
		Content: resp.Text(),
		Model:   model,
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
