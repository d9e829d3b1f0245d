package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
)

type SessionStorage interface {
	Load(ctx context.Context) (storage.State, error)
	Save(ctx context.Context, state storage.State) error
}

// Observer receives a deep copy of the session after every mutation.
// Observers run synchronously and must not mutate the session.
type Observer func(state storage.State)

type SessionUsecaseDeps struct {
	// Storage is optional; without it the session starts empty and is not
	// persisted.
	Storage SessionStorage
	// Now defaults to time.Now.
	Now func() time.Time
}

// SessionUsecase owns one workspace: chat threads, the active thread
// pointer, the active preset, the user profile, settings and the auth flag.
type SessionUsecase struct {
	SessionUsecaseDeps

	// notifyMu serializes mutations together with their notifications so
	// observers see snapshots in mutation order.
	notifyMu  sync.Mutex
	mu        sync.RWMutex
	state     storage.State
	preset    model.Preset
	observers []Observer
}

func NewSessionUsecase(ctx context.Context, deps SessionUsecaseDeps) (*SessionUsecase, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &SessionUsecase{
		SessionUsecaseDeps: deps,
		state: storage.State{
			User:     model.NewUser(),
			Chats:    make([]model.Chat, 0),
			Settings: model.DefaultSettings(),
		},
		preset: model.DefaultPreset(),
	}
	if deps.Storage == nil {
		return s, nil
	}

	state, err := deps.Storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if state.Chats == nil {
		state.Chats = make([]model.Chat, 0)
	}
	s.state = state
	s.Subscribe(s.persist)
	return s, nil
}

func (s *SessionUsecase) Subscribe(observer Observer) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observers = append(s.observers, observer)
}

// Snapshot returns a deep copy of the persisted part of the session.
func (s *SessionUsecase) Snapshot() storage.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *SessionUsecase) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

func (s *SessionUsecase) Login() {
	s.mutate(func(state *storage.State) bool {
		if state.Authenticated {
			return false
		}
		state.Authenticated = true
		return true
	})
}

func (s *SessionUsecase) Logout() {
	s.mutate(func(state *storage.State) bool {
		if !state.Authenticated {
			return false
		}
		state.Authenticated = false
		return true
	})
}

func (s *SessionUsecase) Settings() model.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

func (s *SessionUsecase) Language() local.Language {
	return s.Settings().Language
}

func (s *SessionUsecase) SetLanguage(language local.Language) {
	s.mutate(func(state *storage.State) bool {
		state.Settings.Language = language
		return true
	})
}

func (s *SessionUsecase) SetAccentColor(color string) {
	s.mutate(func(state *storage.State) bool {
		state.Settings.AccentColor = color
		return true
	})
}

// ActivePreset is the persona used for new chats and outgoing requests. It is
// not persisted.
func (s *SessionUsecase) ActivePreset() model.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preset
}

func (s *SessionUsecase) SetActivePreset(preset model.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preset = preset
}

// NewMessage builds a message stamped with a fresh id and the session clock.
func (s *SessionUsecase) NewMessage(role model.MessageRole, content string, messageType model.MessageType) model.Message {
	return model.Message{
		ID:        uuid.Must(uuid.NewV7()),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
		Type:      messageType,
	}
}

func (s *SessionUsecase) mutate(apply func(state *storage.State) bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changed := apply(&s.state)
	var snapshot storage.State
	if changed {
		snapshot = s.snapshot()
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, observer := range s.observers {
		observer(snapshot)
	}
}

func (s *SessionUsecase) snapshot() storage.State {
	state := s.state
	state.Chats = pie.Map(s.state.Chats, model.Chat.Clone)
	return state
}

func (s *SessionUsecase) persist(state storage.State) {
	if err := s.Storage.Save(context.Background(), state); err != nil {
		slog.Error("failed to save session", "error", err)
	}
}

// now truncates to milliseconds, the precision timestamps are stored with.
func (s *SessionUsecase) now() time.Time {
	return time.UnixMilli(s.Now().UnixMilli())
}
