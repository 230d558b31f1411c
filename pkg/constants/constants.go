package constants

const (
	RoleMasterAdmin = "master_admin"
	RoleSubAdmin    = "sub_admin"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// Collection names shared by the local store and the SQL schema.
const (
	CollectionUsers       = "users"
	CollectionDepartments = "departments"
	CollectionTasks       = "tasks"
	CollectionMessages    = "messages"
)

const AttachmentPrefix = "chat-attachments"

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}
