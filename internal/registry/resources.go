package registry

import "taskserver/internal/model"

// Resource describes one read-only endpoint.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
}

const (
	// ResourceAllTasks lists every task.
	ResourceAllTasks = "task://all"
	// ResourceSchema describes the database tables.
	ResourceSchema = "schema://database"
	// TaskURIPrefix addresses per-status task snapshots.
	TaskURIPrefix = "task://"
)

var statusResourceNames = map[string]string{
	model.StatusPending:    "Pending Tasks",
	model.StatusInProgress: "In Progress Tasks",
	model.StatusCompleted:  "Completed Tasks",
	model.StatusCancelled:  "Cancelled Tasks",
}

// Resources returns the read-endpoint catalog: all tasks, one snapshot
// per status value, and the database schema.
func Resources() []Resource {
	out := []Resource{{
		URI:         ResourceAllTasks,
		Name:        "All Tasks",
		Description: "Complete list of all tasks in the system",
		MIMEType:    "application/json",
	}}
	for _, status := range model.Statuses {
		out = append(out, Resource{
			URI:         TaskURIPrefix + status,
			Name:        statusResourceNames[status],
			Description: "List of tasks with " + status + " status",
			MIMEType:    "application/json",
		})
	}
	out = append(out, Resource{
		URI:         ResourceSchema,
		Name:        "Database Schema",
		Description: "Database schema information for all tables",
		MIMEType:    "application/json",
	})
	return out
}
