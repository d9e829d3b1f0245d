package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iamvkosarev/zenith-ai/internal/audio"
	"github.com/iamvkosarev/zenith-ai/internal/model"
	in_memory "github.com/iamvkosarev/zenith-ai/internal/storage/in-memory"
	"github.com/stretchr/testify/require"
)

type discardOutput struct{}

func (discardOutput) Play(context.Context, audio.PCM) error { return nil }

func TestWorkspaces_AreIsolatedAndCached(t *testing.T) {
	ctx := context.Background()
	kv := in_memory.NewKVStorage()
	var outputs []int64
	workspaces := NewWorkspaceUsecase(
		WorkspaceUsecaseDeps{
			KV:          kv,
			Generator:   &fakeGenerator{},
			Synthesizer: &fakeSynthesizer{},
			NewOutput: func(key int64) Output {
				outputs = append(outputs, key)
				return discardOutput{}
			},
		}, testGenerationConfig,
	)

	first, err := workspaces.Get(ctx, 1)
	require.NoError(t, err)
	second, err := workspaces.Get(ctx, 2)
	require.NoError(t, err)
	again, err := workspaces.Get(ctx, 1)
	require.NoError(t, err)

	require.Same(t, first, again)
	require.Equal(t, []int64{1, 2}, outputs)

	first.Session.CreateChat(model.DefaultPreset())
	require.Len(t, first.Session.Chats(), 1)
	require.Empty(t, second.Session.Chats())

	value, err := kv.Get(ctx, "tg:1:zenith_chats")
	require.NoError(t, err)
	require.Contains(t, value, "General Assistant")
}

func TestWorkspaces_CorruptedStateFails(t *testing.T) {
	ctx := context.Background()
	kv := in_memory.NewKVStorage()
	require.NoError(t, kv.Set(ctx, "tg:7:zenith_user", "nope"))

	workspaces := NewWorkspaceUsecase(
		WorkspaceUsecaseDeps{
			KV:        kv,
			NewOutput: func(int64) Output { return discardOutput{} },
		}, testGenerationConfig,
	)
	_, err := workspaces.Get(ctx, 7)
	require.Error(t, err)
}

func TestWorkspace_SendReturnsReplies(t *testing.T) {
	ctx := context.Background()
	generator := &fakeGenerator{
		response: model.GenerationResponse{
			Parts: []model.Part{
				model.TextPart{Text: "first"},
				model.TextPart{Text: "second"},
			},
		},
	}
	workspace, err := NewWorkspace(
		ctx, WorkspaceUsecaseDeps{
			KV:          in_memory.NewKVStorage(),
			Generator:   generator,
			Synthesizer: &fakeSynthesizer{},
		}, testGenerationConfig, "local", discardOutput{},
	)
	require.NoError(t, err)

	status, replies := workspace.Send(ctx, "hello", nil)
	require.Equal(t, SendChatCreated, status)
	require.Empty(t, replies)

	status, replies = workspace.Send(ctx, "hello", nil)
	require.Equal(t, SendCompleted, status)
	require.Len(t, replies, 2)
	require.Equal(t, "first", replies[0].Content)
	require.Equal(t, "second", replies[1].Content)

	found, ok := workspace.FindMessage(replies[1].ID)
	require.True(t, ok)
	require.Equal(t, replies[1], found)

	_, ok = workspace.FindMessage(uuid.New())
	require.False(t, ok)
}
