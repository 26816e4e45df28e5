package history

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn. Messages are immutable after creation and
// ordered by creation sequence within their conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is an ordered, titled, append-only sequence of messages.
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	LastModified time.Time `json:"last_modified"`
}

func newMessage(conversationID string, role Role, text string) Message {
	return Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
}

// defaultTitle names a conversation until its first user message arrives.
const defaultTitle = "New chat"

// titleRuneLimit is how much of the first user message becomes the title.
const titleRuneLimit = 30

// deriveTitle truncates the first user message to the title limit, marking
// the cut with an ellipsis.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleRuneLimit {
		return text
	}
	return string(runes[:titleRuneLimit]) + "…"
}
