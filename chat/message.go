package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ProvisionalPrefix marks a locally inserted message that the server has not
// confirmed yet. Server-issued ids never carry this prefix.
const ProvisionalPrefix = "pending-"

// localPrefix marks a locally confirmed message whose server id is not known
// yet. The next full history load replaces it with the server's record.
const localPrefix = "local-"

// Message is one conversation entry.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
}

// Provisional reports whether the message is a local optimistic insert still
// awaiting confirmation.
func (m Message) Provisional() bool {
	return strings.HasPrefix(m.ID, ProvisionalPrefix)
}

// newProvisional creates the optimistic user message appended at send time.
func newProvisional(content string) Message {
	return Message{
		ID:        ProvisionalPrefix + uuid.New().String(),
		Content:   content,
		Role:      RoleUser,
		Timestamp: time.Now(),
	}
}

// confirmed returns the finalized version of a provisional message: same
// content and position, id rewritten so it is no longer recognizable as
// provisional.
func confirmed(m Message) Message {
	m.ID = localPrefix + strings.TrimPrefix(m.ID, ProvisionalPrefix)
	return m
}

// newAssistant creates a locally identified assistant reply. The send
// endpoint returns only response text, so the id is local until the next
// history load.
func newAssistant(content string) Message {
	return Message{
		ID:        localPrefix + uuid.New().String(),
		Content:   content,
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}
