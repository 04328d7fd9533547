package mtask

type Status string

const (
	Pending    Status = "pending"
	InProgress Status = "in_progress"
	Done       Status = "done"
	Failed     Status = "failed"
)

// Statuses in display order.
var Statuses = []Status{Pending, InProgress, Done, Failed}

func validStatus(status Status) bool {
	return status == Pending || status == InProgress || status == Done || status == Failed
}

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"task_description,omitempty"`
	TeamID      int64  `json:"team_id"`
	CreateBy    int64  `json:"create_by"`
	DueDate     string `json:"due_date,omitempty"`
	Status      Status `json:"status"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"task_description"`
	TeamID      int64  `json:"team_id"`
	CreateBy    int64  `json:"create_by"`
	DueDate     string `json:"due_date,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"task_description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

type assignRequest struct {
	TaskID int64 `json:"task_id"`
	UserID int64 `json:"user_id"`
}

// Assignment is one task_by_user row.
type Assignment struct {
	ID     int64 `json:"id"`
	TaskID int64 `json:"task_id"`
	UserID int64 `json:"user_id"`
}
