package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"golang.org/x/sync/errgroup"
)

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrCorruptedState = errors.New("corrupted state")
)

const (
	authKey         = "zenith_auth"
	userKey         = "zenith_user"
	chatsKey        = "zenith_chats"
	activeChatIDKey = "zenith_active_chat_id"
	settingsKey     = "zenith_settings"
)

// KV is a flat string key-value store. Get returns ErrKeyNotFound for absent
// keys.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// State is everything a workspace persists between runs.
type State struct {
	Authenticated bool
	User          model.User
	Chats         []model.Chat
	ActiveChatID  uuid.UUID
	Settings      model.AppSettings
}

type statsInternal struct {
	TotalRequests int    `json:"totalRequests"`
	FavMode       string `json:"favMode"`
}

type userInternal struct {
	Nickname       string        `json:"nickname"`
	Avatar         string        `json:"avatar"`
	OnboardingSeen bool          `json:"onboardingSeen"`
	Stats          statsInternal `json:"stats"`
}

type messageInternal struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type chatInternal struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	PresetID     string            `json:"presetId"`
	Messages     []messageInternal `json:"messages"`
	CreatedAt    int64             `json:"createdAt"`
	LastModified int64             `json:"lastModified"`
}

type settingsInternal struct {
	Language    string `json:"language"`
	AccentColor string `json:"accentColor"`
}

// SessionStorage maps a workspace State onto five KV entries. Keys are
// prefixed with the namespace so several workspaces can share one KV.
type SessionStorage struct {
	kv        KV
	namespace string
}

func NewSessionStorage(kv KV, namespace string) *SessionStorage {
	return &SessionStorage{
		kv:        kv,
		namespace: namespace,
	}
}

// Load reads the persisted state. Missing entries yield defaults; malformed
// entries yield ErrCorruptedState.
func (s *SessionStorage) Load(ctx context.Context) (State, error) {
	raw := make(map[string]*string, 5)
	keys := []string{authKey, userKey, chatsKey, activeChatIDKey, settingsKey}
	values := make([]*string, len(keys))

	g, gCtx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			value, err := s.kv.Get(gCtx, s.key(key))
			if err != nil {
				if errors.Is(err, ErrKeyNotFound) {
					return nil
				}
				return fmt.Errorf("failed to get %s: %w", key, err)
			}
			values[i] = &value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return State{}, err
	}
	for i, key := range keys {
		raw[key] = values[i]
	}

	state := State{
		User:     model.NewUser(),
		Settings: model.DefaultSettings(),
	}

	if value := raw[authKey]; value != nil {
		state.Authenticated = *value == "true"
	}

	if value := raw[userKey]; value != nil {
		var userInt userInternal
		if err := json.Unmarshal([]byte(*value), &userInt); err != nil {
			return State{}, fmt.Errorf("%w: failed to unmarshal user: %v", ErrCorruptedState, err)
		}
		state.User = model.User{
			Nickname:       userInt.Nickname,
			Avatar:         userInt.Avatar,
			OnboardingSeen: userInt.OnboardingSeen,
			Stats: model.UserStats{
				TotalRequests: userInt.Stats.TotalRequests,
				FavMode:       userInt.Stats.FavMode,
			},
		}
	}

	if value := raw[chatsKey]; value != nil {
		var chatsInt []chatInternal
		if err := json.Unmarshal([]byte(*value), &chatsInt); err != nil {
			return State{}, fmt.Errorf("%w: failed to unmarshal chats: %v", ErrCorruptedState, err)
		}
		chats, err := parseChats(chatsInt)
		if err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrCorruptedState, err)
		}
		state.Chats = chats
	}

	if value := raw[settingsKey]; value != nil {
		var settingsInt settingsInternal
		if err := json.Unmarshal([]byte(*value), &settingsInt); err != nil {
			return State{}, fmt.Errorf("%w: failed to unmarshal settings: %v", ErrCorruptedState, err)
		}
		if language, ok := local.ParseLanguage(settingsInt.Language); ok {
			state.Settings.Language = language
		}
		if settingsInt.AccentColor != "" {
			state.Settings.AccentColor = settingsInt.AccentColor
		}
	}

	state.ActiveChatID = resolveActiveChatID(raw[activeChatIDKey], state.Chats)
	return state, nil
}

// Save writes every entry of state.
func (s *SessionStorage) Save(ctx context.Context, state State) error {
	userJSON, err := json.Marshal(
		userInternal{
			Nickname:       state.User.Nickname,
			Avatar:         state.User.Avatar,
			OnboardingSeen: state.User.OnboardingSeen,
			Stats: statsInternal{
				TotalRequests: state.User.Stats.TotalRequests,
				FavMode:       state.User.Stats.FavMode,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	chatsJSON, err := json.Marshal(formatChats(state.Chats))
	if err != nil {
		return fmt.Errorf("failed to marshal chats: %w", err)
	}
	settingsJSON, err := json.Marshal(
		settingsInternal{
			Language:    string(state.Settings.Language),
			AccentColor: state.Settings.AccentColor,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	activeChatID := ""
	if state.ActiveChatID != uuid.Nil {
		activeChatID = state.ActiveChatID.String()
	}

	entries := map[string]string{
		userKey:         string(userJSON),
		chatsKey:        string(chatsJSON),
		activeChatIDKey: activeChatID,
		settingsKey:     string(settingsJSON),
	}
	if state.Authenticated {
		entries[authKey] = strconv.FormatBool(true)
	} else if err = s.kv.Delete(ctx, s.key(authKey)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", authKey, err)
	}
	for key, value := range entries {
		if err = s.kv.Set(ctx, s.key(key), value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

func (s *SessionStorage) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// resolveActiveChatID: an empty stored id means no active chat, a missing or
// dangling one falls back to the first chat.
func resolveActiveChatID(stored *string, chats []model.Chat) uuid.UUID {
	if stored != nil && *stored == "" {
		return uuid.Nil
	}
	if stored != nil {
		if id, err := uuid.Parse(*stored); err == nil {
			for _, chat := range chats {
				if chat.ID == id {
					return id
				}
			}
		}
	}
	if len(chats) > 0 {
		return chats[0].ID
	}
	return uuid.Nil
}

func parseChats(chatsInt []chatInternal) ([]model.Chat, error) {
	chats := make([]model.Chat, 0, len(chatsInt))
	for _, chatInt := range chatsInt {
		chatID, err := uuid.Parse(chatInt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chat id %q: %w", chatInt.ID, err)
		}
		messages := make([]model.Message, 0, len(chatInt.Messages))
		for _, msgInt := range chatInt.Messages {
			msgID, err := uuid.Parse(msgInt.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to parse message id %q: %w", msgInt.ID, err)
			}
			messages = append(
				messages, model.Message{
					ID:        msgID,
					Role:      model.ParseMessageRole(msgInt.Role),
					Content:   msgInt.Content,
					Timestamp: time.UnixMilli(msgInt.Timestamp),
					Type:      model.MessageType(msgInt.Type),
					ImageURL:  msgInt.ImageURL,
				},
			)
		}
		chats = append(
			chats, model.Chat{
				ID:           chatID,
				Title:        chatInt.Title,
				PresetID:     chatInt.PresetID,
				Messages:     messages,
				CreatedAt:    time.UnixMilli(chatInt.CreatedAt),
				LastModified: time.UnixMilli(chatInt.LastModified),
			},
		)
	}
	return chats, nil
}

func formatChats(chats []model.Chat) []chatInternal {
	chatsInt := make([]chatInternal, 0, len(chats))
	for _, chat := range chats {
		messagesInt := make([]messageInternal, 0, len(chat.Messages))
		for _, msg := range chat.Messages {
			messagesInt = append(
				messagesInt, messageInternal{
					ID:        msg.ID.String(),
					Role:      string(msg.Role),
					Content:   msg.Content,
					Timestamp: msg.Timestamp.UnixMilli(),
					Type:      string(msg.Type),
					ImageURL:  msg.ImageURL,
				},
			)
		}
		chatsInt = append(
			chatsInt, chatInternal{
				ID:           chat.ID.String(),
				Title:        chat.Title,
				PresetID:     chat.PresetID,
				Messages:     messagesInt,
				CreatedAt:    chat.CreatedAt.UnixMilli(),
				LastModified: chat.LastModified.UnixMilli(),
			},
		)
	}
	return chatsInt
}
