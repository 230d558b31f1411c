// Package seeders holds the initial dataset: four departments, the
// master administrator and one sample task. The local store consumes it
// as a snapshot on first open; the postgres seeder inserts the same rows.
package seeders

import "taskdesk/pkg/localstore"

type departmentSeed struct {
	ID          string
	Name        string
	Description string
}

type userSeed struct {
	ID       string
	Email    string
	FullName string
	Role     string
}

type taskSeed struct {
	ID           string
	Title        string
	Description  string
	Priority     string
	Status       string
	Deadline     string
	DepartmentID string
	AssignedTo   string
	AssignedBy   string
}

const seededAt = "2024-01-01T00:00:00Z"

var departmentSeeds = []departmentSeed{
	{ID: "dept-1", Name: "Sales", Description: "Responsible for revenue generation and client acquisition"},
	{ID: "dept-2", Name: "Marketing", Description: "Brand management and promotional campaigns"},
	{ID: "dept-3", Name: "IT", Description: "Technology infrastructure and software development"},
	{ID: "dept-4", Name: "Human Resources", Description: "Employee management and organizational development"},
}

var userSeeds = []userSeed{
	{ID: "user-1", Email: "admin@company.com", FullName: "Master Administrator", Role: "master_admin"},
}

var taskSeeds = []taskSeed{
	{
		ID:           "task-1",
		Title:        "Review Q4 Sales Report",
		Description:  "Analyze quarterly sales performance and prepare recommendations",
		Priority:     "high",
		Status:       "pending",
		Deadline:     "2024-12-31T23:59:59Z",
		DepartmentID: "dept-1",
		AssignedTo:   "user-2",
		AssignedBy:   "user-1",
	},
}

// Snapshot renders the seed dataset in the local store's layout.
func Snapshot() map[string][]localstore.Record {
	departments := make([]localstore.Record, 0, len(departmentSeeds))
	for _, d := range departmentSeeds {
		departments = append(departments, localstore.Record{
			"id":          d.ID,
			"name":        d.Name,
			"description": d.Description,
			"created_at":  seededAt,
		})
	}

	users := make([]localstore.Record, 0, len(userSeeds))
	for _, u := range userSeeds {
		users = append(users, localstore.Record{
			"id":         u.ID,
			"email":      u.Email,
			"full_name":  u.FullName,
			"role":       u.Role,
			"created_at": seededAt,
		})
	}

	tasks := make([]localstore.Record, 0, len(taskSeeds))
	for _, t := range taskSeeds {
		tasks = append(tasks, localstore.Record{
			"id":            t.ID,
			"title":         t.Title,
			"description":   t.Description,
			"priority":      t.Priority,
			"status":        t.Status,
			"deadline":      t.Deadline,
			"department_id": t.DepartmentID,
			"assigned_to":   t.AssignedTo,
			"assigned_by":   t.AssignedBy,
			"created_at":    seededAt,
		})
	}

	return map[string][]localstore.Record{
		"departments": departments,
		"users":       users,
		"tasks":       tasks,
		"messages":    {},
	}
}
