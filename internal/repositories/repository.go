// Package repositories defines the persistence port of the application.
// Every interface has two implementations selected at composition time:
// Postgres (this package) and the local snapshot store (subpackage local).
package repositories

import (
	"context"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/pkg/types"
)

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id string) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

type DepartmentRepositoryInterface interface {
	// GetDepartments returns all departments ordered by name ascending.
	GetDepartments(ctx context.Context) ([]entities.Department, error)
	FindDepartment(ctx context.Context, id string) (*entities.Department, error)
	CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}

type TaskRepositoryInterface interface {
	// GetTasks returns all tasks ordered by created_at descending.
	// Role-based visibility is applied by the service layer.
	GetTasks(ctx context.Context) ([]entities.Task, error)
	FindTask(ctx context.Context, id string) (*entities.Task, error)
	CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error)
	UpdateTask(ctx context.Context, id string, payload dto.UpdateTaskDTO) (*entities.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type MessageRepositoryInterface interface {
	// GetConversation returns the messages of the unordered pair {a, b}
	// ordered by created_at ascending.
	GetConversation(ctx context.Context, userA, userB string) ([]entities.Message, error)
	// GetLastMessage returns the most recent message of the pair, nil
	// when the pair never talked.
	GetLastMessage(ctx context.Context, userA, userB string) (*entities.Message, error)
	// CountUnread counts unread messages sent by senderID to receiverID.
	CountUnread(ctx context.Context, senderID, receiverID string) (int, error)
	CreateMessage(ctx context.Context, message entities.Message) (*entities.Message, error)
	// MarkConversationRead flips is_read on every unread message from
	// senderID to receiverID and reports how many were flipped.
	MarkConversationRead(ctx context.Context, senderID, receiverID string) (int64, error)
}

// SessionRepositoryInterface persists the current-session pointer. It is
// written at sign-in, cleared at sign-out and read-only elsewhere.
type SessionRepositoryInterface interface {
	Save(ctx context.Context, user *entities.User) error
	// Current returns the signed-in user, nil when signed out.
	Current(ctx context.Context) (*entities.User, error)
	Clear(ctx context.Context) error
}
