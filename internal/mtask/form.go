package mtask

import (
	"context"
	"strings"

	"kyri56xcaesar/abac-front/internal/mteam"
	"kyri56xcaesar/abac-front/internal/utils"
)

type FormMode int

const (
	CreateMode FormMode = iota
	EditMode
)

// TaskForm drafts a task and its assignee selection. On submit a non-empty
// selection replaces the task's assignments as a whole; nothing is diffed.
type TaskForm struct {
	tasks       *Service
	assignments *AssignmentService
	members     *mteam.MembershipService
	me          Identity

	Mode        FormMode
	TaskID      int64
	TeamID      int64
	Title       string
	Description string
	DueDate     string
	Status      Status

	// Members is the team roster the selection is drawn from.
	Members  []mteam.Membership
	selected []int64
	// assignees as loaded by OpenEdit
	assigned []int64
}

func NewTaskForm(tasks *Service, assignments *AssignmentService, members *mteam.MembershipService, me Identity) *TaskForm {
	return &TaskForm{tasks: tasks, assignments: assignments, members: members, me: me}
}

// OpenCreate starts a new task in teamID; its status is always pending.
func (f *TaskForm) OpenCreate(ctx context.Context, teamID int64) error {
	roster, err := f.members.UsersByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	*f = TaskForm{
		tasks: f.tasks, assignments: f.assignments, members: f.members, me: f.me,
		Mode:    CreateMode,
		TeamID:  teamID,
		Status:  Pending,
		Members: roster,
	}

	return nil
}

// OpenEdit loads the roster and the current assignees of t.
func (f *TaskForm) OpenEdit(ctx context.Context, t Task) error {
	roster, err := f.members.UsersByTeam(ctx, t.TeamID)
	if err != nil {
		return err
	}
	assignees, err := f.assignments.UserIDsByTask(ctx, t.ID)
	if err != nil {
		return err
	}

	status := t.Status
	if status == "" {
		status = Pending
	}
	*f = TaskForm{
		tasks: f.tasks, assignments: f.assignments, members: f.members, me: f.me,
		Mode:        EditMode,
		TaskID:      t.ID,
		TeamID:      t.TeamID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     dueValue(t.DueDate),
		Status:      status,
		Members:     roster,
		selected:    append([]int64(nil), assignees...),
		assigned:    assignees,
	}

	return nil
}

func (f *TaskForm) isMember(userID int64) bool {
	for _, m := range f.Members {
		if m.UserID == userID {
			return true
		}
	}

	return false
}

// Toggle flips userID in the selection. Only team members can be selected.
func (f *TaskForm) Toggle(userID int64) error {
	if !f.isMember(userID) {
		return utils.NewValidation("assignees", "user %d is not a member of this team", userID)
	}
	if utils.Contains(f.selected, userID) {
		f.selected = utils.Without(f.selected, userID)
	} else {
		f.selected = append(f.selected, userID)
	}

	return nil
}

// Select replaces the selection, e.g. with the checked boxes of a posted form.
func (f *TaskForm) Select(userIDs []int64) error {
	next := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if !f.isMember(id) {
			return utils.NewValidation("assignees", "user %d is not a member of this team", id)
		}
		if !utils.Contains(next, id) {
			next = append(next, id)
		}
	}
	f.selected = next

	return nil
}

func (f *TaskForm) Selected() []int64 {
	return append([]int64(nil), f.selected...)
}

func (f *TaskForm) IsSelected(userID int64) bool {
	return utils.Contains(f.selected, userID)
}

func (f *TaskForm) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return utils.NewValidation("title", "title is required")
	}
	if f.DueDate != "" {
		if _, err := utils.ParseDay(f.DueDate); err != nil {
			return utils.NewValidation("due_date", "invalid date %q", f.DueDate)
		}
	}
	if f.Mode == EditMode && !validStatus(f.Status) {
		return utils.NewValidation("status", "unknown status %q", f.Status)
	}

	return nil
}

// Submit writes the task, then makes its assignment set equal the selection.
// An edit with nothing checked leaves the existing assignments alone.
// Returns the task as re-read from the backend and its assignees.
func (f *TaskForm) Submit(ctx context.Context) (Task, []int64, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.DueDate = strings.TrimSpace(f.DueDate)
	if err := f.validate(); err != nil {
		return Task{}, nil, err
	}

	if f.Mode == CreateMode {
		userID, err := f.me.CurrentUserID()
		if err != nil {
			return Task{}, nil, err
		}
		id, err := f.tasks.Create(ctx, CreateTaskRequest{
			Title:       f.Title,
			Description: f.Description,
			TeamID:      f.TeamID,
			CreateBy:    userID,
			DueDate:     f.DueDate,
		})
		if err != nil {
			return Task{}, nil, err
		}
		f.TaskID = id
	} else {
		req := UpdateTaskRequest{Title: &f.Title, Description: &f.Description, Status: &f.Status}
		if f.DueDate != "" {
			req.DueDate = &f.DueDate
		}
		if err := f.tasks.Update(ctx, f.TaskID, req); err != nil {
			return Task{}, nil, err
		}
		if len(f.selected) == 0 {
			t, err := f.tasks.ByID(ctx, f.TaskID)
			if err != nil {
				return Task{}, nil, err
			}
			return t, append([]int64(nil), f.assigned...), nil
		}
		if err := f.assignments.ClearTask(ctx, f.TaskID); err != nil {
			return Task{}, nil, err
		}
	}

	for _, userID := range f.selected {
		if err := f.assignments.Assign(ctx, f.TaskID, userID); err != nil {
			return Task{}, nil, err
		}
	}

	t, err := f.tasks.ByID(ctx, f.TaskID)
	if err != nil {
		return Task{}, nil, err
	}

	return t, f.Selected(), nil
}

// dueValue trims a backend timestamp down to the date input format.
func dueValue(s string) string {
	t, err := utils.ParseDay(s)
	if err != nil {
		return ""
	}

	return t.Format(utils.DayFormat)
}
