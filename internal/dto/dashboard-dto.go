package dto

type DashboardDTO struct {
	TotalTasks       int                      `json:"total_tasks"`
	TasksByStatus    map[string]int           `json:"tasks_by_status"`
	TasksByPriority  map[string]int           `json:"tasks_by_priority"`
	OverdueTasks     int                      `json:"overdue_tasks"`
	TotalUsers       int                      `json:"total_users"`
	TotalDepartments int                      `json:"total_departments"`
	Departments      []DepartmentTaskStatsDTO `json:"departments"`
}

type DepartmentTaskStatsDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
}
