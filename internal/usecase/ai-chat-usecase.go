package usecase

import (
	"fmt"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
)

const chatTitleTimeLayout = "15:04"

// CreateChat starts a new thread at the front of the list, makes it active
// and switches the active preset to preset.
func (s *SessionUsecase) CreateChat(preset model.Preset) model.Chat {
	var chat model.Chat
	s.mutate(func(state *storage.State) bool {
		now := s.now()
		chat = model.Chat{
			ID:           uuid.Must(uuid.NewV7()),
			Title:        fmt.Sprintf("%s - %s", preset.Name.Text(state.Settings.Language), now.Format(chatTitleTimeLayout)),
			PresetID:     preset.ID,
			Messages:     make([]model.Message, 0),
			CreatedAt:    now,
			LastModified: now,
		}
		state.Chats = append([]model.Chat{chat}, state.Chats...)
		state.ActiveChatID = chat.ID
		s.preset = preset
		return true
	})
	return chat.Clone()
}

// DeleteChat removes the chat. Deleting the active chat leaves no chat active.
func (s *SessionUsecase) DeleteChat(chatID uuid.UUID) bool {
	var deleted bool
	s.mutate(func(state *storage.State) bool {
		i := findChat(state.Chats, chatID)
		if i < 0 {
			return false
		}
		state.Chats = append(state.Chats[:i:i], state.Chats[i+1:]...)
		if state.ActiveChatID == chatID {
			state.ActiveChatID = uuid.Nil
		}
		deleted = true
		return true
	})
	return deleted
}

// AppendMessage appends messages to the chat in order and bumps its
// last-modified time. It reports false when the chat no longer exists.
func (s *SessionUsecase) AppendMessage(chatID uuid.UUID, messages ...model.Message) bool {
	var appended bool
	s.mutate(func(state *storage.State) bool {
		i := findChat(state.Chats, chatID)
		if i < 0 || len(messages) == 0 {
			return false
		}
		chat := state.Chats[i].Clone()
		chat.Messages = append(chat.Messages, messages...)
		chat.LastModified = s.now()
		state.Chats[i] = chat
		appended = true
		return true
	})
	return appended
}

// SelectChat makes the chat active. The active preset is left unchanged.
func (s *SessionUsecase) SelectChat(chatID uuid.UUID) bool {
	var selected bool
	s.mutate(func(state *storage.State) bool {
		if findChat(state.Chats, chatID) < 0 {
			return false
		}
		selected = true
		if state.ActiveChatID == chatID {
			return false
		}
		state.ActiveChatID = chatID
		return true
	})
	return selected
}

func (s *SessionUsecase) ActiveChat() (model.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.ActiveChatID == uuid.Nil {
		return model.Chat{}, false
	}
	return s.chat(s.state.ActiveChatID)
}

func (s *SessionUsecase) ActiveChatID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ActiveChatID
}

func (s *SessionUsecase) Chat(chatID uuid.UUID) (model.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat(chatID)
}

// Chats returns copies of every chat, most recent first.
func (s *SessionUsecase) Chats() []model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pie.Map(s.state.Chats, model.Chat.Clone)
}

func (s *SessionUsecase) chat(chatID uuid.UUID) (model.Chat, bool) {
	i := findChat(s.state.Chats, chatID)
	if i < 0 {
		return model.Chat{}, false
	}
	return s.state.Chats[i].Clone(), true
}

func findChat(chats []model.Chat, chatID uuid.UUID) int {
	return pie.FindFirstUsing(chats, func(chat model.Chat) bool {
		return chat.ID == chatID
	})
}
