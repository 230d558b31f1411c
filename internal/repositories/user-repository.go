package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/types"
)

const userTable = "users"

const userColumns = "id, email, full_name, role, department_id, password_hash, last_login, created_at, updated_at"

var userAllowedSortFields = map[string]string{
	"email":      "u.email",
	"full_name":  "u.full_name",
	"created_at": "u.created_at",
	"last_login": "u.last_login",
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.DepartmentID,
		&u.PasswordHash, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	conditions := []string{}
	args := []interface{}{}
	argCounter := 1
	if filter.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(u.email ILIKE $%d OR u.full_name ILIKE $%d)", argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}
	if deptID, ok := filter.Filter["department_id"]; ok {
		conditions = append(conditions, fmt.Sprintf("u.department_id = $%d", argCounter))
		args = append(args, deptID)
		argCounter++
	}
	if role, ok := filter.Filter["role"]; ok {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argCounter))
		args = append(args, role)
		argCounter++
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s AS u %s", userTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	orderByClause := "ORDER BY u.created_at DESC"
	if len(filter.Sort) > 0 {
		sorts := []string{}
		for field, direction := range filter.Sort {
			if dbField, ok := userAllowedSortFields[field]; ok {
				order := "ASC"
				if strings.EqualFold(direction, "desc") {
					order = "DESC"
				}
				sorts = append(sorts, fmt.Sprintf("%s %s", dbField, order))
			}
		}
		if len(sorts) > 0 {
			orderByClause = "ORDER BY " + strings.Join(sorts, ", ")
		}
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s AS u %s %s %s",
		prefixColumns("u", userColumns), userTable, whereClause, orderByClause, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = $1", userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, email, full_name, role, department_id, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`, userTable, userColumns)
	created, err := scanUser(r.storage.QueryRow(ctx, query,
		user.ID, user.Email, user.FullName, user.Role, user.DepartmentID, user.PasswordHash))
	if isUniqueViolation(err) {
		return nil, apperrors.ErrUserExists
	}
	return created, err
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*entities.User, error) {
	updateBuilder := sq.Update(userTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Email != nil {
		updateBuilder = updateBuilder.Set("email", *payload.Email)
		hasChanges = true
	}
	if payload.FullName != nil {
		updateBuilder = updateBuilder.Set("full_name", *payload.FullName)
		hasChanges = true
	}
	if payload.Role != nil {
		updateBuilder = updateBuilder.Set("role", *payload.Role)
		hasChanges = true
	}
	if payload.DepartmentID != nil {
		updateBuilder = updateBuilder.Set("department_id", *payload.DepartmentID)
		hasChanges = true
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updateBuilder = updateBuilder.Set("password_hash", string(hash))
		hasChanges = true
	}
	if !hasChanges {
		return r.FindUserByID(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return nil, err
	}
	updated, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if isUniqueViolation(err) {
		return nil, apperrors.ErrUserExists
	}
	return updated, err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	// Absent ids are a no-op success by contract.
	_, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", userTable), id)
	return err
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET last_login = NOW(), updated_at = NOW() WHERE id = $1", userTable), id)
	return err
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}
