package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/iamvkosarev/zenith-ai/pkg/markup"
)

const (
	imageSystemInstruction = "You are an AI Image Generator. When asked to create or draw something, " +
		"provide the image data. Always reply with the image part."
	presetInstructionFormat = "%s. February 2026 cutoff. You are an expert AI workstation."
	generateImagePrefix     = "GENERATE IMAGE: "
	audioMessageText        = "[Audio Message]"
)

type SendStatus int

const (
	// SendSkipped: nothing to send, or a send is already in flight.
	SendSkipped SendStatus = iota
	// SendChatCreated: there was no active chat; one was created and nothing
	// was sent.
	SendChatCreated
	SendCompleted
	SendCancelled
	SendFailed
)

func (s SendStatus) String() string {
	switch s {
	case SendSkipped:
		return "skipped"
	case SendChatCreated:
		return "chat_created"
	case SendCompleted:
		return "completed"
	case SendCancelled:
		return "cancelled"
	case SendFailed:
		return "failed"
	default:
		return fmt.Sprintf("SendStatus(%d)", int(s))
	}
}

type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResponse, error)
}

type GenerationConfig struct {
	TextModel   string
	ImageModel  string
	Temperature float32
	// RequestTimeout bounds one backend call; zero means no limit.
	RequestTimeout time.Duration
}

type GenerationUsecaseDeps struct {
	Session   *SessionUsecase
	Generator Generator
}

// GenerationUsecase turns the user's draft into one generation request for
// the active chat. At most one request is in flight at a time.
type GenerationUsecase struct {
	GenerationUsecaseDeps
	cfg GenerationConfig

	busy atomic.Bool

	mu             sync.Mutex
	draft          string
	pendingImage   string
	generationMode bool
	cancel         context.CancelFunc
}

func NewGenerationUsecase(deps GenerationUsecaseDeps, cfg GenerationConfig) *GenerationUsecase {
	return &GenerationUsecase{
		GenerationUsecaseDeps: deps,
		cfg:                   cfg,
	}
}

type Draft struct {
	Text           string
	Image          string
	GenerationMode bool
}

func (g *GenerationUsecase) Draft() Draft {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Draft{
		Text:           g.draft,
		Image:          g.pendingImage,
		GenerationMode: g.generationMode,
	}
}

func (g *GenerationUsecase) SetDraft(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.draft = text
}

// AttachImage sets the pending image, a data URI, replacing any previous one.
func (g *GenerationUsecase) AttachImage(dataURI string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingImage = dataURI
}

func (g *GenerationUsecase) DetachImage() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingImage = ""
}

func (g *GenerationUsecase) SetGenerationMode(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generationMode = on
}

func (g *GenerationUsecase) ToggleGenerationMode() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generationMode = !g.generationMode
	return g.generationMode
}

func (g *GenerationUsecase) Busy() bool {
	return g.busy.Load()
}

// Stop cancels the in-flight send, if any. Its response is discarded.
func (g *GenerationUsecase) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
}

// Send sends content, or the draft when content is empty, together with the
// pending image and audio to the active chat's backend.
func (g *GenerationUsecase) Send(ctx context.Context, content string, audio *model.Audio) SendStatus {
	draft := g.Draft()
	if content == "" {
		content = draft.Text
	}
	if strings.TrimSpace(content) == "" && draft.Image == "" && audio == nil {
		return SendSkipped
	}
	ctx, cancel := context.WithCancel(ctx)
	if !g.claim(cancel) {
		cancel()
		return SendSkipped
	}

	chat, ok := g.Session.ActiveChat()
	if !ok {
		g.Session.CreateChat(g.Session.ActivePreset())
		g.release(cancel, false)
		return SendChatCreated
	}
	defer g.release(cancel, true)

	language := g.Session.Language()
	preset := g.Session.ActivePreset()

	if audio != nil && strings.TrimSpace(content) == "" {
		content = audioMessageText
	}
	displayed := content
	if audio != nil {
		displayed = fmt.Sprintf("[%s]", local.T(language, local.KeyVoiceMode))
	}
	userMessage := g.Session.NewMessage(model.MessageRoleUser, displayed, model.MessageTypeText)
	if draft.Image != "" {
		userMessage.Type = model.MessageTypeImage
		userMessage.ImageURL = draft.Image
	}
	g.Session.AppendMessage(chat.ID, userMessage)

	req, err := g.buildRequest(chat, content, draft, preset, audio)
	if err != nil {
		slog.Error("failed to build generation request", "chat_id", chat.ID, "error", err)
		return SendFailed
	}

	if ctx.Err() != nil {
		return SendCancelled
	}

	callCtx := ctx
	if g.cfg.RequestTimeout > 0 {
		var cancelTimeout context.CancelFunc
		callCtx, cancelTimeout = context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancelTimeout()
	}
	response, err := g.Generator.Generate(callCtx, req)
	if ctx.Err() != nil {
		slog.Info("generation cancelled", "chat_id", chat.ID)
		return SendCancelled
	}
	if err != nil {
		slog.Error("failed to generate", "chat_id", chat.ID, "model", req.Model, "error", err)
		return SendFailed
	}

	messages, err := g.responseMessages(response, language)
	if err != nil {
		slog.Error("failed to map generation response", "chat_id", chat.ID, "model", req.Model, "error", err)
		return SendFailed
	}
	g.Session.AppendMessage(chat.ID, messages...)
	g.Session.RecordCompletedRequest(preset)
	slog.Debug("generation completed", "chat_id", chat.ID, "model", req.Model, "parts", len(messages))
	return SendCompleted
}

// claim marks the pipeline busy and registers cancel for Stop in one step.
func (g *GenerationUsecase) claim(cancel context.CancelFunc) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.busy.CompareAndSwap(false, true) {
		return false
	}
	g.cancel = cancel
	return true
}

func (g *GenerationUsecase) release(cancel context.CancelFunc, resetDraft bool) {
	cancel()
	g.mu.Lock()
	g.cancel = nil
	if resetDraft {
		g.generationMode = false
		g.pendingImage = ""
		g.draft = ""
	}
	g.busy.Store(false)
	g.mu.Unlock()
}

func (g *GenerationUsecase) buildRequest(
	chat model.Chat,
	content string,
	draft Draft,
	preset model.Preset,
	audio *model.Audio,
) (model.GenerationRequest, error) {
	contents := make([]model.Content, 0, len(chat.Messages)+1)
	for _, message := range chat.Messages {
		contents = append(
			contents, model.Content{
				Role:  parseMessageRoleToContentRole(message.Role),
				Parts: []model.Part{model.TextPart{Text: message.Content}},
			},
		)
	}

	text := content
	if draft.GenerationMode {
		text = generateImagePrefix + content
	}
	parts := []model.Part{model.TextPart{Text: text}}
	if draft.Image != "" {
		mimeType, data, err := model.ParseDataURI(draft.Image)
		if err != nil {
			return model.GenerationRequest{}, fmt.Errorf("failed to parse attached image: %w", err)
		}
		parts = append(parts, model.InlineDataPart{MIMEType: mimeType, Data: data})
	}
	if audio != nil {
		parts = append(parts, model.InlineDataPart{MIMEType: audio.MIMEType, Data: audio.Data})
	}
	contents = append(contents, model.Content{Role: model.ContentRoleUser, Parts: parts})

	req := model.GenerationRequest{
		Model:             g.cfg.TextModel,
		Contents:          contents,
		SystemInstruction: fmt.Sprintf(presetInstructionFormat, preset.SystemPrompt),
		Temperature:       g.cfg.Temperature,
	}
	if draft.GenerationMode || wantsImage(content) {
		req.Model = g.cfg.ImageModel
		req.SystemInstruction = imageSystemInstruction
		req.Image = true
	}
	return req, nil
}

func (g *GenerationUsecase) responseMessages(response model.GenerationResponse, language local.Language) ([]model.Message, error) {
	messages := make([]model.Message, 0, len(response.Parts))
	for i, part := range response.Parts {
		var message model.Message
		switch p := part.(type) {
		case model.InlineDataPart:
			message = g.Session.NewMessage(
				model.MessageRoleAssistant, local.T(language, local.KeyImageCaption), model.MessageTypeGeneration,
			)
			message.ImageURL = model.DataURI(p.MIMEType, p.Data)
		case model.TextPart:
			messageType := model.MessageTypeText
			if markup.HasCode(p.Text) {
				messageType = model.MessageTypeCode
			}
			message = g.Session.NewMessage(model.MessageRoleAssistant, p.Text, messageType)
		default:
			return nil, fmt.Errorf("part %d of type %T: %w", i, part, model.ErrUnknownPart)
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func parseMessageRoleToContentRole(role model.MessageRole) model.ContentRole {
	switch role {
	case model.MessageRoleAssistant:
		return model.ContentRoleModel
	default:
		return model.ContentRoleUser
	}
}
