package local

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/localstore"
	"taskdesk/pkg/types"
)

type UserRepository struct {
	store  *localstore.Store
	logger *zap.Logger
}

func NewUserRepository(store *localstore.Store, logger *zap.Logger) repositories.UserRepositoryInterface {
	return &UserRepository{store: store, logger: logger}
}

func decodeUser(record localstore.Record) (*entities.User, error) {
	user, err := decodeRecord[entities.User](record)
	if err != nil {
		return nil, err
	}
	// json:"-" keeps the hash out of responses, so it rides separately.
	if hash, ok := record["password_hash"].(string); ok {
		user.PasswordHash = hash
	}
	return user, nil
}

func encodeUser(user entities.User) (localstore.Record, error) {
	record, err := encodeEntity(user)
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != "" {
		record["password_hash"] = user.PasswordHash
	}
	return record, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	records := r.store.GetAll(constants.CollectionUsers)
	users := make([]entities.User, 0, len(records))
	for _, record := range records {
		user, err := decodeUser(record)
		if err != nil {
			return nil, 0, err
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(user.Email), needle) &&
				!strings.Contains(strings.ToLower(user.FullName), needle) {
				continue
			}
		}
		if role, ok := filter.Filter["role"]; ok && user.Role != role {
			continue
		}
		if deptID, ok := filter.Filter["department_id"]; ok {
			if user.DepartmentID == nil || *user.DepartmentID != deptID {
				continue
			}
		}
		users = append(users, *user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i].CreatedAt, users[j].CreatedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	total := uint64(len(users))
	if filter.WithPagination {
		if filter.Offset >= len(users) {
			return []entities.User{}, total, nil
		}
		users = users[filter.Offset:]
		if filter.Limit > 0 && len(users) > filter.Limit {
			users = users[:filter.Limit]
		}
	}
	return users, total, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*entities.User, error) {
	record, ok := r.store.GetByID(constants.CollectionUsers, id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return decodeUser(record)
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	record, err := r.store.ExecuteSingle(localstore.Query{
		Collection: constants.CollectionUsers,
		Filters:    []localstore.Condition{localstore.Eq("email", email)},
	})
	if err != nil {
		return nil, err
	}
	return decodeUser(record)
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	if existing, err := r.FindUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, apperrors.ErrUserExists
	}

	record, err := encodeUser(user)
	if err != nil {
		return nil, err
	}
	delete(record, "created_at")
	delete(record, "updated_at")

	stored, err := r.store.Insert(constants.CollectionUsers, record)
	if err != nil {
		return nil, err
	}
	return decodeUser(stored)
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*entities.User, error) {
	fields := localstore.Record{}
	if payload.Email != nil {
		fields["email"] = *payload.Email
	}
	if payload.FullName != nil {
		fields["full_name"] = *payload.FullName
	}
	if payload.Role != nil {
		fields["role"] = *payload.Role
	}
	if payload.DepartmentID != nil {
		fields["department_id"] = *payload.DepartmentID
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = string(hash)
	}
	if len(fields) == 0 {
		return r.FindUserByID(ctx, id)
	}

	updated, err := r.store.Update(constants.CollectionUsers, id, fields)
	if err != nil {
		return nil, err
	}
	return decodeUser(updated)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	return r.store.Delete(constants.CollectionUsers, id)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.store.Update(constants.CollectionUsers, id, localstore.Record{
		"last_login": time.Now().UTC().Format(time.RFC3339Nano),
	})
	return err
}
