package front

import (
	"kyri56xcaesar/abac-front/internal/mtask"
	"kyri56xcaesar/abac-front/internal/mteam"
	"kyri56xcaesar/abac-front/internal/muser"
)

// PageVM is embedded by every screen model; the shared header reads it.
type PageVM struct {
	Title       string `json:"-"`
	Active      string `json:"-"`
	CurrentUser string `json:"-"`
	Error       string `json:"error,omitempty"`
}

type LoginVM struct {
	PageVM
	Username string `json:"username,omitempty"`
}

type RegisterVM struct {
	PageVM
	Form muser.RegisterForm `json:"-"`
}

type TeamRowVM struct {
	Team    mteam.Team `json:"team"`
	IsOwner bool       `json:"is_owner"`
}

type TeamListVM struct {
	PageVM
	State string      `json:"state"`
	Rows  []TeamRowVM `json:"teams"`
}

type MemberVM struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	State    string `json:"state"`
}

type TeamFormVM struct {
	PageVM
	Edit        bool       `json:"edit"`
	TeamID      int64      `json:"team_id,omitempty"`
	Name        string     `json:"team_name"`
	Description string     `json:"team_description"`
	Members     []MemberVM `json:"members"`
}

type TeamSavedVM struct {
	Team    mteam.Team `json:"team"`
	Members []int64    `json:"members"`
}

type TaskRowVM struct {
	Task     mtask.Task `json:"task"`
	CanEdit  bool       `json:"can_edit"`
	Assigned bool       `json:"assigned"`
}

type FilterVM struct {
	Status string `json:"status,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

type BoardVM struct {
	PageVM
	Team     mteam.Team     `json:"team"`
	View     string         `json:"view"`
	Filter   FilterVM       `json:"filter"`
	Statuses []mtask.Status `json:"-"`
	Total    int            `json:"total"`
	Rows     []TaskRowVM    `json:"tasks"`
}

type OptionVM struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Selected bool   `json:"selected"`
}

type TaskFormVM struct {
	PageVM
	Edit        bool           `json:"edit"`
	TeamID      int64          `json:"team_id"`
	TaskID      int64          `json:"task_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"task_description"`
	DueDate     string         `json:"due_date"`
	Status      mtask.Status   `json:"status"`
	Statuses    []mtask.Status `json:"-"`
	Options     []OptionVM     `json:"assignees"`
}

type TaskSavedVM struct {
	Task      mtask.Task `json:"task"`
	Assignees []int64    `json:"assignees"`
}

type ProfileVM struct {
	PageVM
	User muser.User `json:"user"`
}

func teamFormVM(page PageVM, f *mteam.TeamForm) TeamFormVM {
	vm := TeamFormVM{
		PageVM:      page,
		Edit:        f.Mode == mteam.EditMode,
		TeamID:      f.TeamID,
		Name:        f.Name,
		Description: f.Description,
	}
	for _, e := range f.Members() {
		vm.Members = append(vm.Members, MemberVM{UserID: e.UserID, Username: e.Username, State: e.State.String()})
	}

	return vm
}

func taskFormVM(page PageVM, f *mtask.TaskForm) TaskFormVM {
	vm := TaskFormVM{
		PageVM:      page,
		Edit:        f.Mode == mtask.EditMode,
		TeamID:      f.TeamID,
		TaskID:      f.TaskID,
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		Status:      f.Status,
		Statuses:    mtask.Statuses,
	}
	for _, m := range f.Members {
		vm.Options = append(vm.Options, OptionVM{UserID: m.UserID, Username: m.UserName, Selected: f.IsSelected(m.UserID)})
	}

	return vm
}
