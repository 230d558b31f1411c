package dto

import "time"

type CreateTaskDTO struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority" validate:"required,oneof=low medium high urgent"`
	Status       string    `json:"status" validate:"omitempty,oneof=pending in_progress completed overdue"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	DepartmentID string    `json:"department_id" validate:"required"`
	AssignedTo   string    `json:"assigned_to" validate:"required"`
}

type UpdateTaskDTO struct {
	Title        *string    `json:"title" validate:"omitempty,min=1"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status       *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed overdue"`
	Deadline     *time.Time `json:"deadline"`
	DepartmentID *string    `json:"department_id"`
	AssignedTo   *string    `json:"assigned_to"`
}
