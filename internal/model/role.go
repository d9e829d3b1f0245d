package model

type MessageRole string

const (
	MessageRoleUser      = MessageRole("user")
	MessageRoleAssistant = MessageRole("assistant")
)

func ParseMessageRole(s string) MessageRole {
	switch s {
	case "assistant":
		return MessageRoleAssistant
	default:
		return MessageRoleUser
	}
}

type MessageType string

const (
	MessageTypeNone       = MessageType("")
	MessageTypeText       = MessageType("text")
	MessageTypeCode       = MessageType("code")
	MessageTypeImage      = MessageType("image")
	MessageTypeGeneration = MessageType("generation")
)
