package store

import "context"

// Conversation is one chat session between a user and the assistant.
type Conversation struct {
	ID        int32
	UID       string
	Title     string
	CreatedTs int64
	UpdatedTs int64
}

// FindConversation is the find condition for conversations.
type FindConversation struct {
	ID  *int32
	UID *string

	Limit *int
}

// DeleteConversation is the delete request for a conversation. Its messages
// are removed with it.
type DeleteConversation struct {
	ID int32
}

// MessageRole marks who produced a conversation message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "USER"
	MessageRoleAssistant MessageRole = "ASSISTANT"
)

// ConversationMessage is one turn of a conversation transcript.
type ConversationMessage struct {
	ID             int32
	ConversationID int32
	Role           MessageRole
	Content        string
	CreatedTs      int64
}

// FindConversationMessage is the find condition for conversation messages.
type FindConversationMessage struct {
	ConversationID *int32
	Limit          *int
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

// GetConversation gets a conversation, or nil when no conversation matches.
func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error) {
	list, err := s.driver.ListConversations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error) {
	return s.driver.CreateConversationMessage(ctx, create)
}

func (s *Store) ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error) {
	return s.driver.ListConversationMessages(ctx, find)
}
