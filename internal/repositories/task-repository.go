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

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	apperrors "taskdesk/pkg/errors"
)

const taskTable = "tasks"

const taskColumns = "id, title, description, priority, status, deadline, department_id, assigned_to, assigned_by, completed_at, created_at, updated_at"

type TaskRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTaskRepository(storage *pgxpool.Pool, logger *zap.Logger) TaskRepositoryInterface {
	return &TaskRepository{storage: storage, logger: logger}
}

func scanTask(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.Deadline,
		&t.DepartmentID, &t.AssignedTo, &t.AssignedBy, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) GetTasks(ctx context.Context) ([]entities.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC", taskColumns, taskTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entities.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) FindTask(ctx context.Context, id string) (*entities.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", taskColumns, taskTable)
	return scanTask(r.storage.QueryRow(ctx, query, id))
}

func (r *TaskRepository) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, title, description, priority, status, deadline, department_id, assigned_to, assigned_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING %s`, taskTable, taskColumns)
	return scanTask(r.storage.QueryRow(ctx, query,
		task.ID, task.Title, task.Description, task.Priority, task.Status,
		task.Deadline, task.DepartmentID, task.AssignedTo, task.AssignedBy))
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id string, payload dto.UpdateTaskDTO) (*entities.Task, error) {
	updateBuilder := sq.Update(taskTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Title != nil {
		updateBuilder = updateBuilder.Set("title", *payload.Title)
		hasChanges = true
	}
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.Priority != nil {
		updateBuilder = updateBuilder.Set("priority", *payload.Priority)
		hasChanges = true
	}
	if payload.Status != nil {
		updateBuilder = updateBuilder.Set("status", *payload.Status)
		if *payload.Status == "completed" {
			updateBuilder = updateBuilder.Set("completed_at", sq.Expr("NOW()"))
		}
		hasChanges = true
	}
	if payload.Deadline != nil {
		updateBuilder = updateBuilder.Set("deadline", *payload.Deadline)
		hasChanges = true
	}
	if payload.DepartmentID != nil {
		updateBuilder = updateBuilder.Set("department_id", *payload.DepartmentID)
		hasChanges = true
	}
	if payload.AssignedTo != nil {
		updateBuilder = updateBuilder.Set("assigned_to", *payload.AssignedTo)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindTask(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + taskColumns).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTask(r.storage.QueryRow(ctx, query, args...))
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	_, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", taskTable), id)
	return err
}
