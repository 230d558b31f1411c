package local

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	"taskdesk/pkg/localstore"
)

type MessageRepository struct {
	store  *localstore.Store
	logger *zap.Logger
}

func NewMessageRepository(store *localstore.Store, logger *zap.Logger) repositories.MessageRepositoryInterface {
	return &MessageRepository{store: store, logger: logger}
}

// pairCondition matches either direction of the unordered pair {a, b}.
func pairCondition(a, b string) string {
	return fmt.Sprintf(
		"and(sender_id.eq.%s,receiver_id.eq.%s),and(sender_id.eq.%s,receiver_id.eq.%s)",
		a, b, b, a,
	)
}

func (r *MessageRepository) GetConversation(ctx context.Context, userA, userB string) ([]entities.Message, error) {
	records, err := r.store.Execute(localstore.Query{
		Collection: constants.CollectionMessages,
		Or:         pairCondition(userA, userB),
		OrderBy:    "created_at",
	})
	if err != nil {
		return nil, err
	}
	return decodeRecords[entities.Message](records)
}

func (r *MessageRepository) GetLastMessage(ctx context.Context, userA, userB string) (*entities.Message, error) {
	record, err := r.store.ExecuteMaybeSingle(localstore.Query{
		Collection: constants.CollectionMessages,
		Or:         pairCondition(userA, userB),
		OrderBy:    "created_at",
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return decodeRecord[entities.Message](record)
}

func (r *MessageRepository) CountUnread(ctx context.Context, senderID, receiverID string) (int, error) {
	count := r.store.Count(constants.CollectionMessages, func(record localstore.Record) bool {
		isRead, _ := record["is_read"].(bool)
		return record["sender_id"] == senderID && record["receiver_id"] == receiverID && !isRead
	})
	return count, nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, message entities.Message) (*entities.Message, error) {
	record, err := encodeEntity(message)
	if err != nil {
		return nil, err
	}
	delete(record, "created_at")
	delete(record, "updated_at")

	stored, err := r.store.Insert(constants.CollectionMessages, record)
	if err != nil {
		return nil, err
	}
	return decodeRecord[entities.Message](stored)
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	unread := r.store.GetWhere(constants.CollectionMessages, func(record localstore.Record) bool {
		isRead, _ := record["is_read"].(bool)
		return record["sender_id"] == senderID && record["receiver_id"] == receiverID && !isRead
	})

	for _, record := range unread {
		id, _ := record["id"].(string)
		if _, err := r.store.Update(constants.CollectionMessages, id, localstore.Record{"is_read": true}); err != nil {
			return 0, err
		}
	}
	return int64(len(unread)), nil
}
