package services

import (
	"context"
	"io"
	"sort"

	"go.uber.org/zap"

	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/filestorage"
	"taskdesk/pkg/types"
	"taskdesk/pkg/websocket"
)

// Attachment is an optional file riding along a chat message.
type Attachment struct {
	File     io.Reader
	FileName string
	MimeType string
}

type ChatService struct {
	messageRepository repositories.MessageRepositoryInterface
	userRepository    repositories.UserRepositoryInterface
	fileStorage       filestorage.FileStorageInterface
	hub               *websocket.Hub
	logger            *zap.Logger
}

func NewChatService(
	messageRepository repositories.MessageRepositoryInterface,
	userRepository repositories.UserRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	hub *websocket.Hub,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		messageRepository: messageRepository,
		userRepository:    userRepository,
		fileStorage:       fileStorage,
		hub:               hub,
		logger:            logger,
	}
}

// GetConversations builds the conversation list for the viewer: one entry
// per other user, carrying that user, the latest message of the pair and
// the count of unread messages that user has sent the viewer. Sorted by
// last-message recency, empty conversations last.
func (s *ChatService) GetConversations(ctx context.Context, viewerID string) ([]entities.Conversation, error) {
	users, _, err := s.userRepository.GetUsers(ctx, types.Filter{})
	if err != nil {
		s.logger.Error("listing users failed", zap.Error(err))
		return nil, err
	}

	conversations := make([]entities.Conversation, 0, len(users))
	for _, user := range users {
		if user.ID == viewerID {
			continue
		}

		last, err := s.messageRepository.GetLastMessage(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.messageRepository.CountUnread(ctx, user.ID, viewerID)
		if err != nil {
			return nil, err
		}

		conversations = append(conversations, entities.Conversation{
			ID:          user.ID,
			User:        user,
			LastMessage: last,
			UnreadCount: unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case a.CreatedAt == nil || b.CreatedAt == nil:
			return b.CreatedAt == nil && a.CreatedAt != nil
		default:
			return a.CreatedAt.After(*b.CreatedAt)
		}
	})
	return conversations, nil
}

func (s *ChatService) GetMessages(ctx context.Context, viewerID, otherID string) ([]entities.Message, error) {
	messages, err := s.messageRepository.GetConversation(ctx, viewerID, otherID)
	if err != nil {
		s.logger.Error("loading conversation failed",
			zap.String("viewerID", viewerID),
			zap.String("otherID", otherID),
			zap.Error(err))
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID, content string, attachment *Attachment) (*entities.Message, error) {
	if content == "" && attachment == nil {
		return nil, apperrors.NewBadRequestError("message must have content or an attachment")
	}
	if _, err := s.userRepository.FindUserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	message := entities.Message{
		Content:    content,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}

	if attachment != nil {
		stored, err := s.fileStorage.Save(attachment.File, attachment.FileName, attachment.MimeType, constants.AttachmentPrefix)
		if err != nil {
			s.logger.Error("saving attachment failed", zap.String("fileName", attachment.FileName), zap.Error(err))
			return nil, err
		}
		message.AttachmentURL = &stored.URL
		message.AttachmentName = &attachment.FileName
		message.AttachmentType = &attachment.MimeType
	}

	created, err := s.messageRepository.CreateMessage(ctx, message)
	if err != nil {
		s.logger.Error("creating message failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("message sent",
		zap.String("id", created.ID),
		zap.String("senderID", senderID),
		zap.String("receiverID", receiverID))

	if s.hub != nil {
		if err := s.hub.SendMessageToUser(receiverID, created, websocket.EventChatMessage); err != nil {
			s.logger.Warn("websocket push failed", zap.String("receiverID", receiverID), zap.Error(err))
		}
	}
	return created, nil
}

// MarkMessagesAsRead flips is_read on every unread message from senderID
// to the viewer and notifies the sender's open sockets.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, viewerID, senderID string) (int64, error) {
	flipped, err := s.messageRepository.MarkConversationRead(ctx, senderID, viewerID)
	if err != nil {
		s.logger.Error("marking conversation read failed",
			zap.String("viewerID", viewerID),
			zap.String("senderID", senderID),
			zap.Error(err))
		return 0, err
	}

	if flipped > 0 && s.hub != nil {
		payload := map[string]interface{}{"reader_id": viewerID, "count": flipped}
		if err := s.hub.SendMessageToUser(senderID, payload, websocket.EventChatRead); err != nil {
			s.logger.Warn("websocket push failed", zap.String("senderID", senderID), zap.Error(err))
		}
	}
	return flipped, nil
}
