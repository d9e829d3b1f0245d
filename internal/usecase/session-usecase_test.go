package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
	in_memory "github.com/iamvkosarev/zenith-ai/internal/storage/in-memory"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 2, 1, 10, 30, 0, 0, time.Local)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestSession(t *testing.T) *SessionUsecase {
	t.Helper()
	session, err := NewSessionUsecase(context.Background(), SessionUsecaseDeps{Now: newTestClock().Now})
	require.NoError(t, err)
	return session
}

func mustPreset(t *testing.T, id string) model.Preset {
	t.Helper()
	preset, ok := model.PresetByID(id)
	require.True(t, ok)
	return preset
}

func TestSession_CreateChat(t *testing.T) {
	session := newTestSession(t)
	coding := mustPreset(t, "coding")

	chat := session.CreateChat(coding)

	require.NotEqual(t, uuid.Nil, chat.ID)
	require.Equal(t, "Coding Architect - 10:30", chat.Title)
	require.Equal(t, "coding", chat.PresetID)
	require.Empty(t, chat.Messages)
	require.Equal(t, chat.ID, session.ActiveChatID())
	require.Equal(t, "coding", session.ActivePreset().ID)
}

func TestSession_ChatTitleUsesLanguage(t *testing.T) {
	session := newTestSession(t)
	session.SetLanguage(local.Rus)

	chat := session.CreateChat(mustPreset(t, "zen"))
	require.Equal(t, "Zen Режим - 10:30", chat.Title)
}

func TestSession_ChatsAreMostRecentFirst(t *testing.T) {
	session := newTestSession(t)

	created := make([]uuid.UUID, 0, 5)
	for range 5 {
		created = append(created, session.CreateChat(model.DefaultPreset()).ID)
	}

	chats := session.Chats()
	require.Len(t, chats, 5)
	for i, chat := range chats {
		require.Equal(t, created[len(created)-1-i], chat.ID)
		if i > 0 {
			require.True(t, chats[i-1].CreatedAt.After(chat.CreatedAt))
		}
	}
}

func TestSession_DeleteActiveChatLeavesNoneActive(t *testing.T) {
	session := newTestSession(t)
	first := session.CreateChat(model.DefaultPreset())
	second := session.CreateChat(model.DefaultPreset())

	require.True(t, session.DeleteChat(second.ID))

	_, ok := session.ActiveChat()
	require.False(t, ok)
	require.Equal(t, uuid.Nil, session.ActiveChatID())
	require.Len(t, session.Chats(), 1)
	require.Equal(t, first.ID, session.Chats()[0].ID)

	require.False(t, session.DeleteChat(second.ID))
}

func TestSession_DeleteInactiveChatKeepsActive(t *testing.T) {
	session := newTestSession(t)
	first := session.CreateChat(model.DefaultPreset())
	second := session.CreateChat(model.DefaultPreset())

	require.True(t, session.DeleteChat(first.ID))
	require.Equal(t, second.ID, session.ActiveChatID())
}

func TestSession_AppendMessageIsMonotonic(t *testing.T) {
	session := newTestSession(t)
	chat := session.CreateChat(model.DefaultPreset())

	for i := range 4 {
		message := session.NewMessage(model.MessageRoleUser, "hello", model.MessageTypeText)
		require.True(t, session.AppendMessage(chat.ID, message))

		stored, ok := session.Chat(chat.ID)
		require.True(t, ok)
		require.Len(t, stored.Messages, i+1)
		for j := 1; j < len(stored.Messages); j++ {
			require.False(t, stored.Messages[j].Timestamp.Before(stored.Messages[j-1].Timestamp))
		}
		require.False(t, stored.LastModified.Before(stored.Messages[i].Timestamp))
	}

	require.False(t, session.AppendMessage(uuid.New(), session.NewMessage(model.MessageRoleUser, "x", "")))
}

func TestSession_ReturnedChatsAreCopies(t *testing.T) {
	session := newTestSession(t)
	chat := session.CreateChat(model.DefaultPreset())
	session.AppendMessage(chat.ID, session.NewMessage(model.MessageRoleUser, "original", model.MessageTypeText))

	active, ok := session.ActiveChat()
	require.True(t, ok)
	active.Messages[0].Content = "changed"

	stored, _ := session.Chat(chat.ID)
	require.Equal(t, "original", stored.Messages[0].Content)
}

func TestSession_SelectChatKeepsPreset(t *testing.T) {
	session := newTestSession(t)
	first := session.CreateChat(mustPreset(t, "coding"))
	session.CreateChat(mustPreset(t, "zen"))

	require.True(t, session.SelectChat(first.ID))
	require.Equal(t, first.ID, session.ActiveChatID())
	require.Equal(t, "zen", session.ActivePreset().ID)

	require.False(t, session.SelectChat(uuid.New()))
}

func TestSession_ObserversSeeEveryMutationInOrder(t *testing.T) {
	session := newTestSession(t)

	var snapshots []storage.State
	session.Subscribe(func(state storage.State) {
		snapshots = append(snapshots, state)
	})

	chat := session.CreateChat(model.DefaultPreset())
	session.AppendMessage(chat.ID, session.NewMessage(model.MessageRoleUser, "hi", model.MessageTypeText))
	session.SetAccentColor("#3b82f6")
	session.DeleteChat(chat.ID)

	require.Len(t, snapshots, 4)
	require.Len(t, snapshots[0].Chats, 1)
	require.Empty(t, snapshots[0].Chats[0].Messages)
	require.Len(t, snapshots[1].Chats[0].Messages, 1)
	require.Equal(t, "#3b82f6", snapshots[2].Settings.AccentColor)
	require.Empty(t, snapshots[3].Chats)
	require.Equal(t, uuid.Nil, snapshots[3].ActiveChatID)
}

func TestSession_NoOpMutationsDoNotNotify(t *testing.T) {
	session := newTestSession(t)
	var notified int
	session.Subscribe(func(storage.State) { notified++ })

	session.Logout()
	session.DeleteChat(uuid.New())
	session.SelectChat(uuid.New())
	require.False(t, session.SetNickname("   "))

	require.Zero(t, notified)
}

func TestSession_UserProfile(t *testing.T) {
	session := newTestSession(t)

	require.True(t, session.SetNickname("  Neo "))
	session.CompleteOnboarding()
	session.RecordCompletedRequest(mustPreset(t, "creative"))
	session.RecordCompletedRequest(mustPreset(t, "creative"))

	user := session.User()
	require.Equal(t, "Neo", user.Nickname)
	require.True(t, user.OnboardingSeen)
	require.Equal(t, 2, user.Stats.TotalRequests)
	require.Equal(t, "Creative Muse", user.Stats.FavMode)
}

func TestSession_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	kv := in_memory.NewKVStorage()
	clock := newTestClock()

	session, err := NewSessionUsecase(ctx, SessionUsecaseDeps{
		Storage: storage.NewSessionStorage(kv, "local"),
		Now:     clock.Now,
	})
	require.NoError(t, err)

	session.Login()
	first := session.CreateChat(mustPreset(t, "coding"))
	session.AppendMessage(first.ID, session.NewMessage(model.MessageRoleUser, "hello", model.MessageTypeText))
	session.CreateChat(mustPreset(t, "zen"))
	require.True(t, session.SelectChat(first.ID))
	session.SetLanguage(local.Fra)
	session.SetNickname("Trinity")

	restored, err := NewSessionUsecase(ctx, SessionUsecaseDeps{
		Storage: storage.NewSessionStorage(kv, "local"),
		Now:     clock.Now,
	})
	require.NoError(t, err)

	require.Equal(t, session.Snapshot(), restored.Snapshot())
	require.True(t, restored.Authenticated())
	require.Equal(t, first.ID, restored.ActiveChatID())
	require.Equal(t, local.Fra, restored.Language())
	require.Equal(t, "Trinity", restored.User().Nickname)
}

func TestSession_RestoreKeepsNoActiveChat(t *testing.T) {
	ctx := context.Background()
	kv := in_memory.NewKVStorage()

	session, err := NewSessionUsecase(ctx, SessionUsecaseDeps{Storage: storage.NewSessionStorage(kv, "")})
	require.NoError(t, err)
	session.CreateChat(model.DefaultPreset())
	active := session.CreateChat(model.DefaultPreset())
	session.DeleteChat(active.ID)

	restored, err := NewSessionUsecase(ctx, SessionUsecaseDeps{Storage: storage.NewSessionStorage(kv, "")})
	require.NoError(t, err)
	_, ok := restored.ActiveChat()
	require.False(t, ok)
	require.Len(t, restored.Chats(), 1)
}

func TestSession_CorruptedStateAbortsLoad(t *testing.T) {
	ctx := context.Background()
	kv := in_memory.NewKVStorage()
	require.NoError(t, kv.Set(ctx, "zenith_chats", "[{"))

	_, err := NewSessionUsecase(ctx, SessionUsecaseDeps{Storage: storage.NewSessionStorage(kv, "")})
	require.ErrorIs(t, err, storage.ErrCorruptedState)
}

func TestSession_ConcurrentMutations(t *testing.T) {
	session := newTestSession(t)
	chat := session.CreateChat(model.DefaultPreset())

	var lastCount int
	monotonic := true
	session.Subscribe(func(state storage.State) {
		count := len(state.Chats[0].Messages)
		if count < lastCount {
			monotonic = false
		}
		lastCount = count
	})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.AppendMessage(chat.ID, session.NewMessage(model.MessageRoleUser, "x", model.MessageTypeText))
		}()
	}
	wg.Wait()

	stored, _ := session.Chat(chat.ID)
	require.Len(t, stored.Messages, 20)
	require.Equal(t, 20, lastCount)
	require.True(t, monotonic)
}
