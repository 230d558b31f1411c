package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskdesk/internal/entities"
	apperrors "taskdesk/pkg/errors"
)

const messageTable = "messages"

const messageColumns = "id, content, sender_id, receiver_id, attachment_url, attachment_name, attachment_type, is_read, created_at, updated_at"

type MessageRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMessageRepository(storage *pgxpool.Pool, logger *zap.Logger) MessageRepositoryInterface {
	return &MessageRepository{storage: storage, logger: logger}
}

func scanMessage(row pgx.Row) (*entities.Message, error) {
	var m entities.Message
	err := row.Scan(&m.ID, &m.Content, &m.SenderID, &m.ReceiverID,
		&m.AttachmentURL, &m.AttachmentName, &m.AttachmentType, &m.IsRead, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning message: %w", err)
	}
	return &m, nil
}

// pairCondition matches both directions of the unordered pair {a, b}.
func pairCondition(a, b string) sq.Or {
	return sq.Or{
		sq.And{sq.Eq{"sender_id": a}, sq.Eq{"receiver_id": b}},
		sq.And{sq.Eq{"sender_id": b}, sq.Eq{"receiver_id": a}},
	}
}

func (r *MessageRepository) GetConversation(ctx context.Context, userA, userB string) ([]entities.Message, error) {
	query, args, err := sq.Select(messageColumns).
		From(messageTable).
		PlaceholderFormat(sq.Dollar).
		Where(pairCondition(userA, userB)).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]entities.Message, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) GetLastMessage(ctx context.Context, userA, userB string) (*entities.Message, error) {
	query, args, err := sq.Select(messageColumns).
		From(messageTable).
		PlaceholderFormat(sq.Dollar).
		Where(pairCondition(userA, userB)).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	message, err := scanMessage(r.storage.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return message, err
}

func (r *MessageRepository) CountUnread(ctx context.Context, senderID, receiverID string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(messageTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"sender_id": senderID, "receiver_id": receiverID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, message entities.Message) (*entities.Message, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, content, sender_id, receiver_id, attachment_url, attachment_name, attachment_type, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING %s`, messageTable, messageColumns)
	return scanMessage(r.storage.QueryRow(ctx, query,
		message.ID, message.Content, message.SenderID, message.ReceiverID,
		message.AttachmentURL, message.AttachmentName, message.AttachmentType, message.IsRead))
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	query, args, err := sq.Update(messageTable).
		PlaceholderFormat(sq.Dollar).
		Set("is_read", true).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"sender_id": senderID, "receiver_id": receiverID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
