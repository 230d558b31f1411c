package entities

import (
	"time"

	"taskdesk/pkg/constants"
	"taskdesk/pkg/types"

	"github.com/aarondl/null/v8"
)

type Task struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Priority    string    `json:"priority" db:"priority"`
	Status      string    `json:"status" db:"status"`
	Deadline    time.Time `json:"deadline" db:"deadline"`

	DepartmentID string `json:"department_id" db:"department_id"`
	AssignedTo   string `json:"assigned_to" db:"assigned_to"`
	AssignedBy   string `json:"assigned_by" db:"assigned_by"`

	CompletedAt null.Time `json:"completed_at" db:"completed_at"`

	// Enrichment, resolved by id lookup at read time. Nil when the
	// referenced row no longer exists (deletes do not cascade).
	Department *Department `json:"department,omitempty" db:"-"`
	Assignee   *User       `json:"assignee,omitempty" db:"-"`
	Assigner   *User       `json:"assigner,omitempty" db:"-"`

	types.BaseEntity
}

// EffectiveStatus derives the overdue view at read time: a task past its
// deadline that is not completed reports overdue. The stored status is
// never rewritten.
func (t *Task) EffectiveStatus(now time.Time) string {
	if t.Status != constants.StatusCompleted && t.Deadline.Before(now) {
		return constants.StatusOverdue
	}
	return t.Status
}
