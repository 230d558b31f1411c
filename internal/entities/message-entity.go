package entities

import "taskdesk/pkg/types"

type Message struct {
	ID         string `json:"id" db:"id"`
	Content    string `json:"content" db:"content"`
	SenderID   string `json:"sender_id" db:"sender_id"`
	ReceiverID string `json:"receiver_id" db:"receiver_id"`

	AttachmentURL  *string `json:"attachment_url,omitempty" db:"attachment_url"`
	AttachmentName *string `json:"attachment_name,omitempty" db:"attachment_name"`
	AttachmentType *string `json:"attachment_type,omitempty" db:"attachment_type"`

	IsRead bool `json:"is_read" db:"is_read"`

	types.BaseEntity
}

// Conversation is derived, never persisted: the counterpart user, the most
// recent message of the unordered pair and the number of unread messages
// that counterpart has sent to the viewer.
type Conversation struct {
	ID          string   `json:"id"`
	User        User     `json:"user"`
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}
