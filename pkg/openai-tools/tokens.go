package openai_tools

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

const fallbackEncoding = "cl100k_base"

// CountToken estimates the prompt size of messages for chatModel. Image parts
// are not counted.
func CountToken(messages []openai.ChatCompletionMessage, chatModel string) (int, error) {
	tkm, err := tiktoken.EncodingForModel(chatModel)
	if err != nil {
		tkm, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("failed to get encoding: %w", err)
		}
	}

	const (
		tokensPerMessage = 3
		tokensPerName    = 1
		replyPriming     = 3
	)
	count := replyPriming
	for _, message := range messages {
		count += tokensPerMessage
		count += len(tkm.Encode(message.Role, nil, nil))
		count += len(tkm.Encode(message.Content, nil, nil))
		for _, part := range message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				count += len(tkm.Encode(part.Text, nil, nil))
			}
		}
		if message.Name != "" {
			count += tokensPerName + len(tkm.Encode(message.Name, nil, nil))
		}
	}
	return count, nil
}

// TrimHistory drops the oldest messages after the leading system message
// until count reports at most maxTokens. The last message is always kept. It
// returns the kept messages and whether anything was dropped.
func TrimHistory(
	messages []openai.ChatCompletionMessage,
	maxTokens int,
	count func([]openai.ChatCompletionMessage) (int, error),
) ([]openai.ChatCompletionMessage, bool, error) {
	head := 0
	if len(messages) > 0 && messages[0].Role == openai.ChatMessageRoleSystem {
		head = 1
	}
	trimmed := false
	for len(messages)-head > 1 {
		tokenCount, err := count(messages)
		if err != nil {
			return nil, false, fmt.Errorf("failed to count tokens: %w", err)
		}
		if tokenCount <= maxTokens {
			break
		}
		messages = append(messages[:head:head], messages[head+1:]...)
		trimmed = true
	}
	return messages, trimmed, nil
}
