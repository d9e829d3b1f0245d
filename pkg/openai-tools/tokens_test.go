package openai_tools

import (
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func countWords(messages []openai.ChatCompletionMessage) (int, error) {
	return len(messages) * 10, nil
}

func TestTrimHistory_KeepsSystemAndLast(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "be brief"},
		{Role: openai.ChatMessageRoleUser, Content: "one"},
		{Role: openai.ChatMessageRoleAssistant, Content: "two"},
		{Role: openai.ChatMessageRoleUser, Content: "three"},
	}

	kept, trimmed, err := TrimHistory(messages, 25, countWords)
	require.NoError(t, err)
	require.True(t, trimmed)
	require.Equal(t, []openai.ChatCompletionMessage{messages[0], messages[3]}, kept)
}

func TestTrimHistory_WithinBudget(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "one"},
		{Role: openai.ChatMessageRoleUser, Content: "two"},
	}
	kept, trimmed, err := TrimHistory(messages, 100, countWords)
	require.NoError(t, err)
	require.False(t, trimmed)
	require.Equal(t, messages, kept)
}

func TestTrimHistory_NeverDropsLastMessage(t *testing.T) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "one"},
		{Role: openai.ChatMessageRoleUser, Content: "two"},
	}
	kept, trimmed, err := TrimHistory(messages, 1, countWords)
	require.NoError(t, err)
	require.True(t, trimmed)
	require.Equal(t, messages[1:], kept)
}

func TestTrimHistory_CountError(t *testing.T) {
	messages := []openai.ChatCompletionMessage{{Content: "a"}, {Content: "b"}}
	_, _, err := TrimHistory(messages, 1, func([]openai.ChatCompletionMessage) (int, error) {
		return 0, errors.New("no encoding")
	})
	require.Error(t, err)
}
