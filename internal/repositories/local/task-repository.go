package local

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/localstore"
)

type TaskRepository struct {
	store  *localstore.Store
	logger *zap.Logger
}

func NewTaskRepository(store *localstore.Store, logger *zap.Logger) repositories.TaskRepositoryInterface {
	return &TaskRepository{store: store, logger: logger}
}

func (r *TaskRepository) GetTasks(ctx context.Context) ([]entities.Task, error) {
	records, err := r.store.Execute(localstore.Query{
		Collection: constants.CollectionTasks,
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecords[entities.Task](records)
}

func (r *TaskRepository) FindTask(ctx context.Context, id string) (*entities.Task, error) {
	record, ok := r.store.GetByID(constants.CollectionTasks, id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return decodeRecord[entities.Task](record)
}

func (r *TaskRepository) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	record, err := encodeEntity(task)
	if err != nil {
		return nil, err
	}
	delete(record, "created_at")
	delete(record, "updated_at")

	stored, err := r.store.Insert(constants.CollectionTasks, record)
	if err != nil {
		return nil, err
	}
	return decodeRecord[entities.Task](stored)
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id string, payload dto.UpdateTaskDTO) (*entities.Task, error) {
	fields := localstore.Record{}
	if payload.Title != nil {
		fields["title"] = *payload.Title
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.Priority != nil {
		fields["priority"] = *payload.Priority
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
		if *payload.Status == constants.StatusCompleted {
			fields["completed_at"] = time.Now().UTC().Format(time.RFC3339Nano)
		} else {
			fields["completed_at"] = nil
		}
	}
	if payload.Deadline != nil {
		fields["deadline"] = payload.Deadline.UTC().Format(time.RFC3339Nano)
	}
	if payload.DepartmentID != nil {
		fields["department_id"] = *payload.DepartmentID
	}
	if payload.AssignedTo != nil {
		fields["assigned_to"] = *payload.AssignedTo
	}
	if len(fields) == 0 {
		return r.FindTask(ctx, id)
	}

	updated, err := r.store.Update(constants.CollectionTasks, id, fields)
	if err != nil {
		return nil, err
	}
	return decodeRecord[entities.Task](updated)
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	return r.store.Delete(constants.CollectionTasks, id)
}
