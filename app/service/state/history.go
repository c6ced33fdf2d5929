package state

import (
	"time"
)

const MaxHistory = 20

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// ChatHistory is a bounded FIFO window of turns.
type ChatHistory struct {
	messages []Message
}

func (h *ChatHistory) add(role Role, text string, now time.Time) {
	msg := Message{
		Role:      role,
		Text:      text,
		Timestamp: now,
	}

	if len(h.messages) >= MaxHistory {
		h.messages = append(h.messages[1:], msg)
	} else {
		h.messages = append(h.messages, msg)
	}
}

func (h *ChatHistory) snapshot() []Message {
	result := make([]Message, len(h.messages))
	copy(result, h.messages)
	return result
}

func (h *ChatHistory) Len() int {
	return len(h.messages)
}
