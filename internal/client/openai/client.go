package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/iamvkosarev/zenith-ai/config"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	openai_tools "github.com/iamvkosarev/zenith-ai/pkg/openai-tools"
	"github.com/samber/oops"
	"github.com/sashabaranov/go-openai"
)

const (
	generatedImageMIMEType = "image/png"
	speechMIMEType         = "audio/pcm"
	transcriptionFileName  = "voice.ogg"
)

// Client serves generation and speech through any OpenAI-compatible API.
// Image requests go to the images endpoint, audio attachments are
// transcribed before the chat completion.
type Client struct {
	cfg    config.OpenAI
	client *openai.Client
}

func NewClient(cfg config.OpenAI) (*Client, error) {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		baseURL, err := url.JoinPath(cfg.OpenAIBaseURL, "/v1")
		if err != nil {
			return nil, oops.In("openai").Errorf("failed to build base url: %w", err)
		}
		clientConfig.BaseURL = baseURL
	}
	return &Client{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResponse, error) {
	if req.Image {
		return c.generateImage(ctx, req)
	}
	return c.generateText(ctx, req)
}

func (c *Client) Synthesize(ctx context.Context, text string) (model.Speech, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.cfg.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return model.Speech{}, oops.In("openai").With("model", c.cfg.SpeechModel).
			Errorf("failed to create speech: %w", err)
	}
	defer resp.Close()
	data, err := io.ReadAll(resp)
	if err != nil {
		return model.Speech{}, oops.In("openai").Errorf("failed to read speech: %w", err)
	}
	return model.Speech{MIMEType: speechMIMEType, Data: data}, nil
}

func (c *Client) generateText(ctx context.Context, req model.GenerationRequest) (model.GenerationResponse, error) {
	messages, err := c.chatMessages(ctx, req)
	if err != nil {
		return model.GenerationResponse{}, err
	}
	if c.cfg.MaxHistoryTokens > 0 {
		var trimmed bool
		messages, trimmed, err = openai_tools.TrimHistory(
			messages, c.cfg.MaxHistoryTokens, func(m []openai.ChatCompletionMessage) (int, error) {
				return openai_tools.CountToken(m, req.Model)
			},
		)
		if err != nil {
			return model.GenerationResponse{}, oops.In("openai").Wrap(err)
		}
		if trimmed {
			slog.Debug("history trimmed due to token limit", "model", req.Model, "kept", len(messages))
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		N:           1,
		Messages:    messages,
	})
	if err != nil {
		return model.GenerationResponse{}, oops.In("openai").With("model", req.Model).
			Errorf("failed to create chat completion: %w", err)
	}
	parts := make([]model.Part, 0, 1)
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		parts = append(parts, model.TextPart{Text: resp.Choices[0].Message.Content})
	}
	return model.GenerationResponse{Parts: parts}, nil
}

func (c *Client) generateImage(ctx context.Context, req model.GenerationRequest) (model.GenerationResponse, error) {
	prompt := lastPrompt(req.Contents)
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          req.Model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return model.GenerationResponse{}, oops.In("openai").With("model", req.Model).
			Errorf("failed to create image: %w", err)
	}
	parts := make([]model.Part, 0, len(resp.Data))
	for _, image := range resp.Data {
		data, err := base64.StdEncoding.DecodeString(image.B64JSON)
		if err != nil {
			return model.GenerationResponse{}, oops.In("openai").Errorf("failed to decode image: %w", err)
		}
		parts = append(parts, model.InlineDataPart{MIMEType: generatedImageMIMEType, Data: data})
		if image.RevisedPrompt != "" {
			slog.Debug("image prompt revised", "revised_prompt", image.RevisedPrompt)
		}
	}
	return model.GenerationResponse{Parts: parts}, nil
}

func (c *Client) chatMessages(ctx context.Context, req model.GenerationRequest) ([]openai.ChatCompletionMessage, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Contents)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, content := range req.Contents {
		message, err := c.chatMessage(ctx, content)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// chatMessage keeps plain text contents as Content and switches to
// MultiContent as soon as an image is present.
func (c *Client) chatMessage(ctx context.Context, content model.Content) (openai.ChatCompletionMessage, error) {
	message := openai.ChatCompletionMessage{Role: parseContentRoleToRole(content.Role)}
	multi := make([]openai.ChatMessagePart, 0, len(content.Parts))
	texts := make([]string, 0, len(content.Parts))
	hasImage := false

	for _, part := range content.Parts {
		switch p := part.(type) {
		case model.TextPart:
			texts = append(texts, p.Text)
			multi = append(multi, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: p.Text})
		case model.InlineDataPart:
			switch {
			case strings.HasPrefix(p.MIMEType, "image/"):
				hasImage = true
				multi = append(multi, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    model.DataURI(p.MIMEType, p.Data),
						Detail: openai.ImageURLDetailAuto,
					},
				})
			case strings.HasPrefix(p.MIMEType, "audio/"):
				transcript, err := c.transcribe(ctx, p)
				if err != nil {
					return openai.ChatCompletionMessage{}, err
				}
				texts = append(texts, transcript)
				multi = append(multi, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: transcript})
			default:
				return openai.ChatCompletionMessage{}, oops.In("openai").With("mime_type", p.MIMEType).
					Errorf("unsupported inline data")
			}
		default:
			return openai.ChatCompletionMessage{}, oops.In("openai").
				Wrapf(model.ErrUnknownPart, "request part of type %T", part)
		}
	}

	if hasImage {
		message.MultiContent = multi
	} else {
		message.Content = strings.Join(texts, "\n")
	}
	return message, nil
}

func (c *Client) transcribe(ctx context.Context, audio model.InlineDataPart) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.cfg.TranscriptionModel,
		FilePath: transcriptionFileName,
		Reader:   bytes.NewReader(audio.Data),
	})
	if err != nil {
		return "", oops.In("openai").With("model", c.cfg.TranscriptionModel).
			Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}

func lastPrompt(contents []model.Content) string {
	if len(contents) == 0 {
		return ""
	}
	texts := make([]string, 0, 1)
	for _, part := range contents[len(contents)-1].Parts {
		if p, ok := part.(model.TextPart); ok {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func parseContentRoleToRole(role model.ContentRole) string {
	switch role {
	case model.ContentRoleModel:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
