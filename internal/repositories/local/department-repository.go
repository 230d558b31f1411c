package local

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/localstore"
)

type DepartmentRepository struct {
	store  *localstore.Store
	logger *zap.Logger
}

func NewDepartmentRepository(store *localstore.Store, logger *zap.Logger) repositories.DepartmentRepositoryInterface {
	return &DepartmentRepository{store: store, logger: logger}
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context) ([]entities.Department, error) {
	departments, err := decodeRecords[entities.Department](r.store.GetAll(constants.CollectionDepartments))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(departments, func(i, j int) bool {
		return strings.ToLower(departments[i].Name) < strings.ToLower(departments[j].Name)
	})
	return departments, nil
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id string) (*entities.Department, error) {
	record, ok := r.store.GetByID(constants.CollectionDepartments, id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return decodeRecord[entities.Department](record)
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error) {
	record, err := encodeEntity(department)
	if err != nil {
		return nil, err
	}
	delete(record, "created_at")
	delete(record, "updated_at")

	stored, err := r.store.Insert(constants.CollectionDepartments, record)
	if err != nil {
		return nil, err
	}
	return decodeRecord[entities.Department](stored)
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	fields := localstore.Record{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if len(fields) == 0 {
		return r.FindDepartment(ctx, id)
	}

	updated, err := r.store.Update(constants.CollectionDepartments, id, fields)
	if err != nil {
		return nil, err
	}
	return decodeRecord[entities.Department](updated)
}

func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id string) error {
	return r.store.Delete(constants.CollectionDepartments, id)
}
