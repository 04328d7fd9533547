package mtask

import (
	"context"

	"golang.org/x/sync/errgroup"

	"kyri56xcaesar/abac-front/internal/mteam"
	"kyri56xcaesar/abac-front/internal/utils"
)

type View int

const (
	AllTasks View = iota
	MyTasks
)

// ParseView maps the "view" query value; anything but "mine" is the full list.
func ParseView(s string) View {
	if s == "mine" {
		return MyTasks
	}

	return AllTasks
}

func (v View) String() string {
	if v == MyTasks {
		return "mine"
	}

	return "all"
}

// Board is the task screen of one team. Switching views and filtering work on
// the loaded lists only; Delete and Apply patch them in place.
type Board struct {
	teams       *mteam.Service
	tasks       *Service
	assignments *AssignmentService
	me          Identity

	TeamID int64
	Team   mteam.Team
	UserID int64
	View   View
	Filter Filter

	all         []Task
	assignedIDs []int64
}

func NewBoard(teams *mteam.Service, tasks *Service, assignments *AssignmentService, me Identity, teamID int64) *Board {
	return &Board{teams: teams, tasks: tasks, assignments: assignments, me: me, TeamID: teamID}
}

// Load fetches the team, its tasks and the user's assigned task ids concurrently.
func (b *Board) Load(ctx context.Context) error {
	userID, err := b.me.CurrentUserID()
	if err != nil {
		return err
	}

	var (
		team     mteam.Team
		tasks    []Task
		assigned []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		team, err = b.teams.ByID(gctx, b.TeamID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = b.tasks.ByTeam(gctx, b.TeamID)
		return err
	})
	g.Go(func() error {
		var err error
		assigned, err = b.assignments.TaskIDsByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	b.UserID = userID
	b.Team = team
	b.all = tasks
	b.assignedIDs = assigned

	return nil
}

// Tasks is the unfiltered team list.
func (b *Board) Tasks() []Task {
	return append([]Task(nil), b.all...)
}

// Assigned is the team list narrowed to tasks assigned to the user.
func (b *Board) Assigned() []Task {
	return utils.Filter(b.all, func(t Task) bool { return utils.Contains(b.assignedIDs, t.ID) })
}

// Visible applies the filter over the source list of the current view.
func (b *Board) Visible() []Task {
	if b.View == MyTasks {
		return b.Filter.Apply(b.Assigned())
	}

	return b.Filter.Apply(b.all)
}

func (b *Board) SetView(v View) {
	b.View = v
}

func (b *Board) ApplyFilter(f Filter) {
	b.Filter = f
}

func (b *Board) ClearFilter() {
	b.Filter = Filter{}
}

func (b *Board) IsAssigned(taskID int64) bool {
	return utils.Contains(b.assignedIDs, taskID)
}

// CanEdit holds for the creator and for assignees. The backend does not enforce it.
func (b *Board) CanEdit(t Task) bool {
	return t.CreateBy == b.UserID || b.IsAssigned(t.ID)
}

// Delete removes a task of this team that the user may edit. Tasks not on the
// board are read first so a missing id surfaces the API's 404.
func (b *Board) Delete(ctx context.Context, taskID int64) error {
	i := b.index(taskID)
	var t Task
	if i >= 0 {
		t = b.all[i]
	} else {
		found, err := b.tasks.ByID(ctx, taskID)
		if err != nil {
			return err
		}
		if found.TeamID != b.TeamID {
			return utils.NewValidation("task_id", "task %d does not belong to team %d", taskID, b.TeamID)
		}
		t = found
	}
	if !b.CanEdit(t) {
		return utils.NewValidation("task", "you cannot delete %q", t.Title)
	}
	if err := b.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	if i >= 0 {
		b.all = append(b.all[:i], b.all[i+1:]...)
	}
	b.assignedIDs = utils.Without(b.assignedIDs, taskID)

	return nil
}

// Apply upserts a task returned by a form submit along with its assignees.
func (b *Board) Apply(t Task, assignees []int64) {
	if i := b.index(t.ID); i >= 0 {
		b.all[i] = t
	} else {
		b.all = append(b.all, t)
	}

	mine := utils.Contains(assignees, b.UserID)
	switch {
	case mine && !b.IsAssigned(t.ID):
		b.assignedIDs = append(b.assignedIDs, t.ID)
	case !mine:
		b.assignedIDs = utils.Without(b.assignedIDs, t.ID)
	}
}

// Find returns the loaded task with id taskID.
func (b *Board) Find(taskID int64) (Task, bool) {
	if i := b.index(taskID); i >= 0 {
		return b.all[i], true
	}

	return Task{}, false
}

func (b *Board) index(taskID int64) int {
	for i, t := range b.all {
		if t.ID == taskID {
			return i
		}
	}

	return -1
}
