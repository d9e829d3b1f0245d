package gemini

import (
	"context"
	"fmt"

	"github.com/iamvkosarev/zenith-ai/config"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/samber/oops"
	"google.golang.org/genai"
)

// Client talks to the Gemini API. It generates chat and image responses and
// synthesizes speech.
type Client struct {
	cfg    config.Gemini
	client *genai.Client
}

func NewClient(ctx context.Context, cfg config.Gemini) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, oops.In("gemini").Errorf("failed to create client: %w", err)
	}
	return &Client{
		cfg:    cfg,
		client: client,
	}, nil
}

func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResponse, error) {
	contents, err := toGenaiContents(req.Contents)
	if err != nil {
		return model.GenerationResponse{}, oops.In("gemini").With("model", req.Model).Wrap(err)
	}
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.SystemInstruction != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, genCfg)
	if err != nil {
		return model.GenerationResponse{}, oops.In("gemini").With("model", req.Model).
			Errorf("failed to generate content: %w", err)
	}
	parts, err := fromGenaiResponse(resp)
	if err != nil {
		return model.GenerationResponse{}, oops.In("gemini").With("model", req.Model).Wrap(err)
	}
	return model.GenerationResponse{Parts: parts}, nil
}

func (c *Client) Synthesize(ctx context.Context, text string) (model.Speech, error) {
	genCfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
			},
		},
	}
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: text}}}}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.SpeechModel, contents, genCfg)
	if err != nil {
		return model.Speech{}, oops.In("gemini").With("model", c.cfg.SpeechModel).
			Errorf("failed to synthesize speech: %w", err)
	}
	return speechFromResponse(resp)
}

func toGenaiContents(contents []model.Content) ([]*genai.Content, error) {
	result := make([]*genai.Content, 0, len(contents))
	for _, content := range contents {
		parts := make([]*genai.Part, 0, len(content.Parts))
		for _, part := range content.Parts {
			switch p := part.(type) {
			case model.TextPart:
				parts = append(parts, &genai.Part{Text: p.Text})
			case model.InlineDataPart:
				parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}})
			default:
				return nil, fmt.Errorf("request part of type %T: %w", part, model.ErrUnknownPart)
			}
		}
		result = append(result, &genai.Content{Role: string(content.Role), Parts: parts})
	}
	return result, nil
}

// fromGenaiResponse reads the first candidate. A response without candidates
// has no parts. Thought parts and bare thought signatures are skipped.
func fromGenaiResponse(resp *genai.GenerateContentResponse) ([]model.Part, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}
	parts := make([]model.Part, 0, len(resp.Candidates[0].Content.Parts))
	for i, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part == nil:
			return nil, fmt.Errorf("part %d is nil: %w", i, model.ErrUnknownPart)
		case part.Thought:
			continue
		case part.InlineData != nil:
			parts = append(parts, model.InlineDataPart{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data})
		case part.Text != "":
			parts = append(parts, model.TextPart{Text: part.Text})
		case len(part.ThoughtSignature) > 0:
			continue
		default:
			return nil, fmt.Errorf("part %d has neither text nor inline data: %w", i, model.ErrUnknownPart)
		}
	}
	return parts, nil
}

func speechFromResponse(resp *genai.GenerateContentResponse) (model.Speech, error) {
	parts, err := fromGenaiResponse(resp)
	if err != nil {
		return model.Speech{}, err
	}
	for _, part := range parts {
		if data, ok := part.(model.InlineDataPart); ok {
			return model.Speech{MIMEType: data.MIMEType, Data: data.Data}, nil
		}
	}
	return model.Speech{}, model.ErrEmptyResponse
}
