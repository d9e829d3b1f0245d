package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/stretchr/testify/require"
)

var testGenerationConfig = GenerationConfig{
	TextModel:   "gemini-3-flash-preview",
	ImageModel:  "gemini-2.5-flash-image",
	Temperature: 0.8,
}

type fakeGenerator struct {
	mu       sync.Mutex
	requests []model.GenerationRequest
	response model.GenerationResponse
	err      error
	// started and release let a test hold a call in flight.
	started chan struct{}
	release chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return model.GenerationResponse{}, ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeGenerator) calls() []model.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.GenerationRequest(nil), f.requests...)
}

type unknownPart struct{ model.TextPart }

func newTestGeneration(t *testing.T, generator *fakeGenerator) (*GenerationUsecase, *SessionUsecase) {
	t.Helper()
	session := newTestSession(t)
	generation := NewGenerationUsecase(
		GenerationUsecaseDeps{Session: session, Generator: generator},
		testGenerationConfig,
	)
	return generation, session
}

func activeMessages(t *testing.T, session *SessionUsecase) []model.Message {
	t.Helper()
	chat, ok := session.ActiveChat()
	require.True(t, ok)
	return chat.Messages
}

func TestSend_FirstSendOnlyCreatesChat(t *testing.T) {
	generator := &fakeGenerator{}
	generation, session := newTestGeneration(t, generator)
	generation.SetDraft("hello")

	status := generation.Send(context.Background(), "", nil)

	require.Equal(t, SendChatCreated, status)
	require.Len(t, session.Chats(), 1)
	require.Empty(t, activeMessages(t, session))
	require.Empty(t, generator.calls())
	require.Equal(t, "hello", generation.Draft().Text)
	require.False(t, generation.Busy())
}

func TestSend_EmptyInputIsNoOp(t *testing.T) {
	for _, generationMode := range []bool{false, true} {
		for _, preset := range model.Presets {
			generator := &fakeGenerator{}
			generation, session := newTestGeneration(t, generator)
			session.CreateChat(preset)
			generation.SetGenerationMode(generationMode)

			require.Equal(t, SendSkipped, generation.Send(context.Background(), "  \n\t", nil))
			require.Empty(t, activeMessages(t, session))
			require.Empty(t, generator.calls())
		}
	}
}

func TestSend_EmptyInputWithoutChatDoesNotCreateOne(t *testing.T) {
	generation, session := newTestGeneration(t, &fakeGenerator{})
	require.Equal(t, SendSkipped, generation.Send(context.Background(), "", nil))
	require.Empty(t, session.Chats())
}

func TestSend_TextConversation(t *testing.T) {
	generator := &fakeGenerator{
		response: model.GenerationResponse{Parts: []model.Part{
			model.TextPart{Text: "Here you go:\n```go\nfmt.Println(1)\n```"},
			model.TextPart{Text: "Anything else?"},
		}},
	}
	generation, session := newTestGeneration(t, generator)
	chat := session.CreateChat(mustPreset(t, "coding"))
	session.AppendMessage(
		chat.ID,
		session.NewMessage(model.MessageRoleUser, "hi", model.MessageTypeText),
		session.NewMessage(model.MessageRoleAssistant, "hello", model.MessageTypeText),
	)
	generation.SetDraft("print one")

	status := generation.Send(context.Background(), "", nil)
	require.Equal(t, SendCompleted, status)

	calls := generator.calls()
	require.Len(t, calls, 1)
	req := calls[0]
	require.Equal(t, "gemini-3-flash-preview", req.Model)
	require.False(t, req.Image)
	require.Equal(t, float32(0.8), req.Temperature)
	require.Equal(t,
		"You are an expert software architect. Provide clean, optimized code with explanations.. "+
			"February 2026 cutoff. You are an expert AI workstation.",
		req.SystemInstruction,
	)
	require.Equal(t, []model.Content{
		{Role: model.ContentRoleUser, Parts: []model.Part{model.TextPart{Text: "hi"}}},
		{Role: model.ContentRoleModel, Parts: []model.Part{model.TextPart{Text: "hello"}}},
		{Role: model.ContentRoleUser, Parts: []model.Part{model.TextPart{Text: "print one"}}},
	}, req.Contents)

	messages := activeMessages(t, session)
	require.Len(t, messages, 5)
	require.Equal(t, model.MessageRoleUser, messages[2].Role)
	require.Equal(t, "print one", messages[2].Content)
	require.Equal(t, model.MessageTypeText, messages[2].Type)
	require.Equal(t, model.MessageRoleAssistant, messages[3].Role)
	require.Equal(t, model.MessageTypeCode, messages[3].Type)
	require.Equal(t, model.MessageTypeText, messages[4].Type)
	require.Equal(t, "Anything else?", messages[4].Content)

	user := session.User()
	require.Equal(t, 1, user.Stats.TotalRequests)
	require.Equal(t, "Coding Architect", user.Stats.FavMode)
	require.Empty(t, generation.Draft().Text)
}

func TestSend_DrawKeywordRoutesToImageModel(t *testing.T) {
	generator := &fakeGenerator{
		response: model.GenerationResponse{Parts: []model.Part{
			model.InlineDataPart{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		}},
	}
	generation, session := newTestGeneration(t, generator)
	chat := session.CreateChat(model.DefaultPreset())
	session.AppendMessage(chat.ID, session.NewMessage(model.MessageRoleUser, "draw a cat", model.MessageTypeText))

	require.Equal(t, SendCompleted, generation.Send(context.Background(), "Please DRAW a cat", nil))

	req := generator.calls()[0]
	require.True(t, req.Image)
	require.Equal(t, "gemini-2.5-flash-image", req.Model)
	require.Equal(t, imageSystemInstruction, req.SystemInstruction)

	messages := activeMessages(t, session)
	require.Len(t, messages, 3)
	generated := messages[2]
	require.Equal(t, model.MessageRoleAssistant, generated.Role)
	require.Equal(t, model.MessageTypeGeneration, generated.Type)
	require.Equal(t, "Neural Stream Visualization:", generated.Content)
	require.Equal(t, "data:image/png;base64,iVBORw==", generated.ImageURL)
}

func TestSend_RussianTriggerWord(t *testing.T) {
	require.True(t, wantsImage("Нарисуй кота"))
	require.True(t, wantsImage("recreate this"))
	require.False(t, wantsImage("write a poem"))
}

func TestSend_GenerationModeAndAttachment(t *testing.T) {
	generator := &fakeGenerator{}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())

	generation.ToggleGenerationMode()
	generation.AttachImage("data:image/jpeg;base64,/9j/")
	require.Equal(t, SendCompleted, generation.Send(context.Background(), "a sunset", nil))

	req := generator.calls()[0]
	require.True(t, req.Image)
	last := req.Contents[len(req.Contents)-1]
	require.Equal(t, []model.Part{
		model.TextPart{Text: "GENERATE IMAGE: a sunset"},
		model.InlineDataPart{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
	}, last.Parts)

	userMessage := activeMessages(t, session)[0]
	require.Equal(t, "a sunset", userMessage.Content)
	require.Equal(t, model.MessageTypeImage, userMessage.Type)
	require.Equal(t, "data:image/jpeg;base64,/9j/", userMessage.ImageURL)

	draft := generation.Draft()
	require.False(t, draft.GenerationMode)
	require.Empty(t, draft.Image)
}

func TestSend_ImageOnly(t *testing.T) {
	generator := &fakeGenerator{}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())
	generation.AttachImage("data:image/jpeg;base64,/9j/")

	require.Equal(t, SendCompleted, generation.Send(context.Background(), "", nil))
	require.Len(t, generator.calls(), 1)
}

func TestSend_AudioMessage(t *testing.T) {
	generator := &fakeGenerator{}
	generation, session := newTestGeneration(t, generator)
	session.SetLanguage(local.Rus)
	session.CreateChat(model.DefaultPreset())

	audio := &model.Audio{MIMEType: "audio/ogg", Data: []byte("OggS")}
	require.Equal(t, SendCompleted, generation.Send(context.Background(), "", audio))

	last := generator.calls()[0].Contents[0]
	require.Equal(t, []model.Part{
		model.TextPart{Text: "[Audio Message]"},
		model.InlineDataPart{MIMEType: "audio/ogg", Data: []byte("OggS")},
	}, last.Parts)
	require.Equal(t, "[Голос]", activeMessages(t, session)[0].Content)
}

func TestSend_FailureAppendsNothing(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("quota exceeded")}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())
	generation.ToggleGenerationMode()

	require.Equal(t, SendFailed, generation.Send(context.Background(), "hello", nil))

	messages := activeMessages(t, session)
	require.Len(t, messages, 1)
	require.Equal(t, model.MessageRoleUser, messages[0].Role)
	require.Zero(t, session.User().Stats.TotalRequests)
	require.False(t, generation.Draft().GenerationMode)
	require.False(t, generation.Busy())
}

func TestSend_UnknownPartRejectsWholeResponse(t *testing.T) {
	generator := &fakeGenerator{
		response: model.GenerationResponse{Parts: []model.Part{
			model.TextPart{Text: "fine"},
			unknownPart{},
		}},
	}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())

	require.Equal(t, SendFailed, generation.Send(context.Background(), "hello", nil))
	require.Len(t, activeMessages(t, session), 1)
}

func TestSend_WhileBusyIsNoOp(t *testing.T) {
	generator := &fakeGenerator{
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		response: model.GenerationResponse{Parts: []model.Part{model.TextPart{Text: "done"}}},
	}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())

	done := make(chan SendStatus)
	go func() {
		done <- generation.Send(context.Background(), "first", nil)
	}()
	<-generator.started
	require.True(t, generation.Busy())

	before := len(activeMessages(t, session))
	require.Equal(t, SendSkipped, generation.Send(context.Background(), "second", nil))
	require.Len(t, activeMessages(t, session), before)

	close(generator.release)
	require.Equal(t, SendCompleted, <-done)
	require.Len(t, activeMessages(t, session), 2)
	require.Len(t, generator.calls(), 1)
}

func TestSend_StopDiscardsResponse(t *testing.T) {
	generator := &fakeGenerator{
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		response: model.GenerationResponse{Parts: []model.Part{model.TextPart{Text: "late"}}},
	}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())

	done := make(chan SendStatus)
	go func() {
		done <- generation.Send(context.Background(), "hello", nil)
	}()
	<-generator.started
	generation.Stop()

	select {
	case status := <-done:
		require.Equal(t, SendCancelled, status)
	case <-time.After(time.Second):
		t.Fatal("send was not cancelled")
	}
	require.Len(t, activeMessages(t, session), 1)
	require.False(t, generation.Busy())
	require.Zero(t, session.User().Stats.TotalRequests)
}

func TestSend_StopBeforeDispatchCancels(t *testing.T) {
	generator := &fakeGenerator{response: model.GenerationResponse{Parts: []model.Part{model.TextPart{Text: "late"}}}}
	generation, session := newTestGeneration(t, generator)
	session.CreateChat(model.DefaultPreset())
	session.Subscribe(func(storage.State) {
		if generation.Busy() {
			generation.Stop()
		}
	})

	require.Equal(t, SendCancelled, generation.Send(context.Background(), "hello", nil))
	require.Empty(t, generator.calls())
	require.False(t, generation.Busy())
	require.Len(t, activeMessages(t, session), 1)
}

func TestSend_TimeoutFails(t *testing.T) {
	generator := &fakeGenerator{release: make(chan struct{})}
	session := newTestSession(t)
	cfg := testGenerationConfig
	cfg.RequestTimeout = 10 * time.Millisecond
	generation := NewGenerationUsecase(GenerationUsecaseDeps{Session: session, Generator: generator}, cfg)
	session.CreateChat(model.DefaultPreset())

	require.Equal(t, SendFailed, generation.Send(context.Background(), "hello", nil))
	require.False(t, generation.Busy())
}

func TestSend_AppendsToChatActiveAtStart(t *testing.T) {
	generator := &fakeGenerator{
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		response: model.GenerationResponse{Parts: []model.Part{model.TextPart{Text: "answer"}}},
	}
	generation, session := newTestGeneration(t, generator)
	origin := session.CreateChat(model.DefaultPreset())

	done := make(chan SendStatus)
	go func() {
		done <- generation.Send(context.Background(), "question", nil)
	}()
	<-generator.started
	other := session.CreateChat(model.DefaultPreset())
	close(generator.release)
	require.Equal(t, SendCompleted, <-done)

	originChat, _ := session.Chat(origin.ID)
	otherChat, _ := session.Chat(other.ID)
	require.Len(t, originChat.Messages, 2)
	require.Empty(t, otherChat.Messages)
}
