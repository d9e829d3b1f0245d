package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
)

// Workspace is one independent user environment: its session, request
// pipeline and voice adapter.
type Workspace struct {
	Session    *SessionUsecase
	Generation *GenerationUsecase
	Voice      *VoiceUsecase
}

type WorkspaceUsecaseDeps struct {
	KV          storage.KV
	Generator   Generator
	Synthesizer Synthesizer
	// NewOutput returns where speech for the workspace with the given key is
	// played.
	NewOutput func(key int64) Output
	Now       func() time.Time
}

// WorkspaceUsecase lazily loads one workspace per key and keeps it for the
// lifetime of the process.
type WorkspaceUsecase struct {
	WorkspaceUsecaseDeps
	cfg GenerationConfig

	mu         sync.Mutex
	workspaces map[int64]*Workspace
}

func NewWorkspaceUsecase(deps WorkspaceUsecaseDeps, cfg GenerationConfig) *WorkspaceUsecase {
	return &WorkspaceUsecase{
		WorkspaceUsecaseDeps: deps,
		cfg:                  cfg,
		workspaces:           make(map[int64]*Workspace),
	}
}

func (w *WorkspaceUsecase) Get(ctx context.Context, key int64) (*Workspace, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if workspace, ok := w.workspaces[key]; ok {
		return workspace, nil
	}
	workspace, err := NewWorkspace(ctx, w.WorkspaceUsecaseDeps, w.cfg, getWorkspaceNamespace(key), w.NewOutput(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %d: %w", key, err)
	}
	w.workspaces[key] = workspace
	return workspace, nil
}

// NewWorkspace loads the workspace stored under namespace.
func NewWorkspace(
	ctx context.Context,
	deps WorkspaceUsecaseDeps,
	cfg GenerationConfig,
	namespace string,
	output Output,
) (*Workspace, error) {
	session, err := NewSessionUsecase(
		ctx, SessionUsecaseDeps{
			Storage: storage.NewSessionStorage(deps.KV, namespace),
			Now:     deps.Now,
		},
	)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		Session: session,
		Generation: NewGenerationUsecase(
			GenerationUsecaseDeps{
				Session:   session,
				Generator: deps.Generator,
			}, cfg,
		),
		Voice: NewVoiceUsecase(
			VoiceUsecaseDeps{
				Synthesizer: deps.Synthesizer,
				Output:      output,
			},
		),
	}, nil
}

// Send runs one request through the workspace pipeline and returns the
// assistant messages it appended.
func (w *Workspace) Send(ctx context.Context, content string, audio *model.Audio) (SendStatus, []model.Message) {
	chatID := w.Session.ActiveChatID()
	var before int
	if chat, ok := w.Session.Chat(chatID); ok {
		before = len(chat.Messages)
	}

	status := w.Generation.Send(ctx, content, audio)
	if status != SendCompleted {
		return status, nil
	}
	chat, ok := w.Session.Chat(chatID)
	if !ok || len(chat.Messages) <= before {
		return status, nil
	}
	return status, pie.Filter(
		chat.Messages[before:], func(message model.Message) bool {
			return message.Role == model.MessageRoleAssistant
		},
	)
}

// SelectChat activates the chat and switches the active preset to the one the
// chat was created with.
func (w *Workspace) SelectChat(chatID uuid.UUID) (model.Chat, bool) {
	if !w.Session.SelectChat(chatID) {
		return model.Chat{}, false
	}
	chat, ok := w.Session.Chat(chatID)
	if !ok {
		return model.Chat{}, false
	}
	if preset, found := model.PresetByID(chat.PresetID); found {
		w.Session.SetActivePreset(preset)
	}
	return chat, true
}

// FindMessage looks a message up across every chat of the workspace.
func (w *Workspace) FindMessage(messageID uuid.UUID) (model.Message, bool) {
	for _, chat := range w.Session.Chats() {
		for _, message := range chat.Messages {
			if message.ID == messageID {
				return message, true
			}
		}
	}
	return model.Message{}, false
}

func getWorkspaceNamespace(key int64) string {
	return fmt.Sprintf("tg:%d", key)
}
