package model

import "time"

// Task statuses and priorities are closed sets; the storage layer
// re-checks membership before any insert or update.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	// MaxTitleLen bounds the task title.
	MaxTitleLen = 255
	// MaxTags bounds the tag list.
	MaxTags = 10
)

var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags"`
	Categories  []string   `json:"categories"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask carries the validated arguments of a create.
type NewTask struct {
	Title       string
	Description *string
	Priority    string
	AssignedTo  *string
	DueDate     *time.Time
	Tags        []string
}

// TaskFilter narrows a task listing. Zero values mean "no filter";
// Limit 0 means unbounded.
type TaskFilter struct {
	Status     string
	AssignedTo string
	Priority   string
	Limit      int
}
