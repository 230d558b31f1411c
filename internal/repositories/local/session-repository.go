package local

import (
	"context"

	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/localstore"
)

// SessionRepository keeps the session pointer inside the snapshot file so
// a restart resumes the signed-in user.
type SessionRepository struct {
	store *localstore.Store
}

func NewSessionRepository(store *localstore.Store) repositories.SessionRepositoryInterface {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Save(ctx context.Context, user *entities.User) error {
	if user == nil {
		return r.store.ClearCurrentUser()
	}
	record, err := encodeEntity(user)
	if err != nil {
		return err
	}
	return r.store.SetCurrentUser(record)
}

func (r *SessionRepository) Current(ctx context.Context) (*entities.User, error) {
	record := r.store.CurrentUser()
	if record == nil {
		return nil, nil
	}
	return decodeUser(record)
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.ClearCurrentUser()
}
