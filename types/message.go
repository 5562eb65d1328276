package types

import "time"

// Well-known sender names. Every other sender is a specialist role name.
const (
	SenderUser       = "user"
	SenderSupervisor = "supervisor"
)

// Message is one entry of a conversation transcript. Sender is either a
// specialist role name, "user", or "supervisor". Messages are immutable once
// appended; ordering is significant — later messages see all earlier ones.
type Message struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewMessage creates a message with the given sender and content.
func NewMessage(sender, content string) Message {
	return Message{
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates the initial user message of a conversation.
func NewUserMessage(content string) Message {
	return NewMessage(SenderUser, content)
}

// NewSupervisorMessage creates a supervisor decision message.
func NewSupervisorMessage(content string) Message {
	return NewMessage(SenderSupervisor, content)
}
