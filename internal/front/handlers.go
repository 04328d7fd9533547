package front

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"kyri56xcaesar/abac-front/internal/gateway"
	"kyri56xcaesar/abac-front/internal/logger"
	"kyri56xcaesar/abac-front/internal/mtask"
	"kyri56xcaesar/abac-front/internal/mteam"
	"kyri56xcaesar/abac-front/internal/muser"
	"kyri56xcaesar/abac-front/internal/utils"
)

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (r loginRequest) validateLogin() error {
	if strings.TrimSpace(r.Username) == "" {
		return utils.NewValidation("username", "cannot be empty")
	}
	if r.Password == "" {
		return utils.NewValidation("password", "cannot be empty")
	}

	return nil
}

type teamRequest struct {
	Name        string   `form:"team_name" json:"team_name"`
	Description string   `form:"team_description" json:"team_description"`
	Add         []string `form:"add" json:"add"`
	Remove      []int64  `form:"remove" json:"remove"`
}

type taskRequest struct {
	Title       string  `form:"title" json:"title"`
	Description string  `form:"task_description" json:"task_description"`
	DueDate     string  `form:"due_date" json:"due_date"`
	Status      string  `form:"status" json:"status"`
	Assignees   []int64 `form:"assignees" json:"assignees"`
}

func (s *server) page(c *gin.Context, title, active string) PageVM {
	return PageVM{Title: title, Active: active, CurrentUser: c.GetString("abac.username")}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("abac.user_id")
}

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewValidation(name, "invalid id %q", c.Param(name))
	}

	return id, nil
}

func (s *server) bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("failed to bind request")
		s.fail(c, utils.NewValidation("", "bad data"))
		return false
	}

	return true
}

/* session */

func (s *server) handleRoot(c *gin.Context) {
	if s.auth.SessionFor(c).Active() {
		c.Redirect(http.StatusSeeOther, "/select-team")
		return
	}
	c.Redirect(http.StatusSeeOther, loginPath)
}

func (s *server) handleLoginPage(c *gin.Context) {
	s.respondInFormat(c, http.StatusOK, LoginVM{PageVM: s.page(c, "Login", "login")}, "login.html")
}

func (s *server) handleLogin(c *gin.Context) {
	var r loginRequest
	if !s.bind(c, &r) {
		return
	}
	if err := r.validateLogin(); err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.auth.SessionFor(c).Login(c.Request.Context(), strings.TrimSpace(r.Username), r.Password)
	if err != nil {
		var apiErr *gateway.APIError
		if !wantsJSON(c) && errors.As(err, &apiErr) {
			vm := LoginVM{PageVM: s.page(c, "Login", "login"), Username: r.Username}
			vm.Error = apiErr.Message
			s.respondInFormat(c, apiErr.Status, vm, "login.html")
			return
		}
		s.fail(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Info().Str("username", r.Username).Msg("user logged in")
	s.done(c, http.StatusOK, gin.H{"message": res.Message, "token": res.Token}, "/select-team")
}

func (s *server) handleRegisterPage(c *gin.Context) {
	s.respondInFormat(c, http.StatusOK, RegisterVM{PageVM: s.page(c, "Register", "register")}, "register.html")
}

func (s *server) handleRegister(c *gin.Context) {
	var form muser.RegisterForm
	if !s.bind(c, &form) {
		return
	}
	if err := muser.Register(c.Request.Context(), s.users, form); err != nil {
		s.fail(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Info().Str("username", form.Username).Msg("user registered")
	s.done(c, http.StatusCreated, gin.H{"message": "registration successful"}, loginPath)
}

func (s *server) handleLogout(c *gin.Context) {
	s.auth.SessionFor(c).Logout()
	s.done(c, http.StatusOK, gin.H{"message": "logged out"}, loginPath)
}

/* teams */

func (s *server) handleTeamList(c *gin.Context) {
	list := mteam.NewTeamList(s.teams, s.members, s.auth.SessionFor(c))
	if err := list.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	vm := TeamListVM{PageVM: s.page(c, "Select team", "teams"), State: list.State.String(), Rows: []TeamRowVM{}}
	for _, t := range list.Teams {
		vm.Rows = append(vm.Rows, TeamRowVM{Team: t, IsOwner: list.IsOwner(t)})
	}
	s.respondInFormat(c, http.StatusOK, vm, "teams.html")
}

func (s *server) teamForm(c *gin.Context) *mteam.TeamForm {
	return mteam.NewTeamForm(s.teams, s.members, s.users, s.auth.SessionFor(c))
}

func (s *server) handleTeamNew(c *gin.Context) {
	f := s.teamForm(c)
	if err := f.OpenCreate(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	s.respondInFormat(c, http.StatusOK, teamFormVM(s.page(c, "New team", "teams"), f), "team_form.html")
}

func (s *server) handleTeamCreate(c *gin.Context) {
	var r teamRequest
	if !s.bind(c, &r) {
		return
	}

	f := s.teamForm(c)
	if err := f.OpenCreate(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	f.Name, f.Description = r.Name, r.Description
	for _, username := range r.Add {
		if strings.TrimSpace(username) == "" {
			continue
		}
		if err := f.AddMember(username); err != nil {
			s.fail(c, err)
			return
		}
	}

	team, err := f.Submit(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Info().Int64("team_id", team.TeamID).Int("members", len(f.Members())).Msg("team created")
	s.done(c, http.StatusCreated, TeamSavedVM{Team: team, Members: memberIDs(f)}, "/select-team")
}

// openOwnedTeam opens the edit form, refusing anyone but the owner.
func (s *server) openOwnedTeam(c *gin.Context) (*mteam.TeamForm, bool) {
	teamID, err := paramID(c, "id")
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	f := s.teamForm(c)
	if err := f.OpenEdit(c.Request.Context(), teamID); err != nil {
		s.fail(c, err)
		return nil, false
	}
	if f.Owner != currentUserID(c) {
		s.fail(c, utils.NewValidation("team", "only the owner can edit %q", f.Name))
		return nil, false
	}

	return f, true
}

func (s *server) handleTeamEdit(c *gin.Context) {
	f, ok := s.openOwnedTeam(c)
	if !ok {
		return
	}
	s.respondInFormat(c, http.StatusOK, teamFormVM(s.page(c, "Edit team", "teams"), f), "team_form.html")
}

func (s *server) handleTeamUpdate(c *gin.Context) {
	var r teamRequest
	if !s.bind(c, &r) {
		return
	}
	f, ok := s.openOwnedTeam(c)
	if !ok {
		return
	}

	f.Name, f.Description = r.Name, r.Description
	for _, userID := range r.Remove {
		if err := f.RemoveMember(userID); err != nil {
			s.fail(c, err)
			return
		}
	}
	for _, username := range r.Add {
		if strings.TrimSpace(username) == "" {
			continue
		}
		if err := f.AddMember(username); err != nil {
			s.fail(c, err)
			return
		}
	}

	team, err := f.Submit(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.done(c, http.StatusOK, TeamSavedVM{Team: team, Members: memberIDs(f)}, "/select-team")
}

func (s *server) handleTeamDelete(c *gin.Context) {
	teamID, err := paramID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}

	list := mteam.NewTeamList(s.teams, s.members, s.auth.SessionFor(c))
	if err := list.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	if err := list.Delete(c.Request.Context(), teamID); err != nil {
		s.fail(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Info().Int64("team_id", teamID).Msg("team deleted")
	s.done(c, http.StatusOK, gin.H{"message": "team deleted", "remaining": len(list.Teams)}, "/select-team")
}

func memberIDs(f *mteam.TeamForm) []int64 {
	return utils.Map(f.Members(), func(e mteam.MemberEntry) int64 { return e.UserID })
}

/* tasks */

func (s *server) board(c *gin.Context, teamID int64) *mtask.Board {
	return mtask.NewBoard(s.teams, s.tasks, s.assignments, s.auth.SessionFor(c), teamID)
}

func (s *server) taskForm(c *gin.Context) *mtask.TaskForm {
	return mtask.NewTaskForm(s.tasks, s.assignments, s.members, s.auth.SessionFor(c))
}

func boardPath(teamID int64) string {
	return fmt.Sprintf("/team/%d", teamID)
}

func (s *server) handleBoard(c *gin.Context) {
	teamID, err := paramID(c, "team_id")
	if err != nil {
		s.fail(c, err)
		return
	}
	filter, err := mtask.ParseFilter(c.Query("status"), c.Query("start"), c.Query("end"))
	if err != nil {
		s.fail(c, err)
		return
	}

	b := s.board(c, teamID)
	if err := b.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	b.SetView(mtask.ParseView(c.Query("view")))
	b.ApplyFilter(filter)

	vm := BoardVM{
		PageVM:   s.page(c, b.Team.Name, "board"),
		Team:     b.Team,
		View:     b.View.String(),
		Filter:   FilterVM{Status: string(filter.Status), Start: filter.StartValue(), End: filter.EndValue()},
		Statuses: mtask.Statuses,
		Total:    len(b.Tasks()),
		Rows:     []TaskRowVM{},
	}
	if b.View == mtask.MyTasks {
		vm.Total = len(b.Assigned())
	}
	for _, t := range b.Visible() {
		vm.Rows = append(vm.Rows, TaskRowVM{Task: t, CanEdit: b.CanEdit(t), Assigned: b.IsAssigned(t.ID)})
	}
	s.respondInFormat(c, http.StatusOK, vm, "board.html")
}

func (s *server) handleTaskNew(c *gin.Context) {
	teamID, err := paramID(c, "team_id")
	if err != nil {
		s.fail(c, err)
		return
	}
	f := s.taskForm(c)
	if err := f.OpenCreate(c.Request.Context(), teamID); err != nil {
		s.fail(c, err)
		return
	}
	s.respondInFormat(c, http.StatusOK, taskFormVM(s.page(c, "New task", "board"), f), "task_form.html")
}

func (s *server) handleTaskCreate(c *gin.Context) {
	teamID, err := paramID(c, "team_id")
	if err != nil {
		s.fail(c, err)
		return
	}
	var r taskRequest
	if !s.bind(c, &r) {
		return
	}

	f := s.taskForm(c)
	if err := f.OpenCreate(c.Request.Context(), teamID); err != nil {
		s.fail(c, err)
		return
	}
	f.Title, f.Description, f.DueDate = r.Title, r.Description, r.DueDate
	if err := f.Select(r.Assignees); err != nil {
		s.fail(c, err)
		return
	}

	task, assignees, err := f.Submit(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Info().Int64("task_id", task.ID).Int64("team_id", teamID).Msg("task created")
	s.done(c, http.StatusCreated, TaskSavedVM{Task: task, Assignees: assignees}, boardPath(teamID))
}

// editableTask loads the board and returns the task if the user may change it.
func (s *server) editableTask(c *gin.Context) (*mtask.Board, mtask.Task, bool) {
	teamID, err := paramID(c, "team_id")
	if err != nil {
		s.fail(c, err)
		return nil, mtask.Task{}, false
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		s.fail(c, err)
		return nil, mtask.Task{}, false
	}

	b := s.board(c, teamID)
	if err := b.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return nil, mtask.Task{}, false
	}
	task, found := b.Find(taskID)
	if !found {
		// surfaces the backend 404 when the task does not exist at all
		if _, err := s.tasks.ByID(c.Request.Context(), taskID); err != nil {
			s.fail(c, err)
		} else {
			s.fail(c, utils.NewValidation("task_id", "task %d does not belong to team %d", taskID, teamID))
		}
		return nil, mtask.Task{}, false
	}
	if !b.CanEdit(task) {
		s.fail(c, utils.NewValidation("task", "only the creator or an assignee can change %q", task.Title))
		return nil, mtask.Task{}, false
	}

	return b, task, true
}

func (s *server) handleTaskEdit(c *gin.Context) {
	_, task, ok := s.editableTask(c)
	if !ok {
		return
	}
	f := s.taskForm(c)
	if err := f.OpenEdit(c.Request.Context(), task); err != nil {
		s.fail(c, err)
		return
	}
	s.respondInFormat(c, http.StatusOK, taskFormVM(s.page(c, "Edit task", "board"), f), "task_form.html")
}

func (s *server) handleTaskUpdate(c *gin.Context) {
	var r taskRequest
	if !s.bind(c, &r) {
		return
	}
	_, task, ok := s.editableTask(c)
	if !ok {
		return
	}

	f := s.taskForm(c)
	if err := f.OpenEdit(c.Request.Context(), task); err != nil {
		s.fail(c, err)
		return
	}
	f.Title, f.Description, f.DueDate = r.Title, r.Description, r.DueDate
	if r.Status != "" {
		f.Status = mtask.Status(r.Status)
	}
	if err := f.Select(r.Assignees); err != nil {
		s.fail(c, err)
		return
	}

	updated, assignees, err := f.Submit(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.done(c, http.StatusOK, TaskSavedVM{Task: updated, Assignees: assignees}, boardPath(task.TeamID))
}

func (s *server) handleTaskDelete(c *gin.Context) {
	teamID, err := paramID(c, "team_id")
	if err != nil {
		s.fail(c, err)
		return
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		s.fail(c, err)
		return
	}

	b := s.board(c, teamID)
	if err := b.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	if err := b.Delete(c.Request.Context(), taskID); err != nil {
		s.fail(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Info().Int64("task_id", taskID).Msg("task deleted")
	s.done(c, http.StatusOK, gin.H{"message": "task deleted", "remaining": len(b.Tasks())}, boardPath(teamID))
}

/* profile */

func (s *server) handleProfile(c *gin.Context) {
	p := muser.NewProfile(s.users, s.auth.SessionFor(c))
	if err := p.Load(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	s.respondInFormat(c, http.StatusOK, ProfileVM{PageVM: s.page(c, "Profile", "profile"), User: p.User}, "profile.html")
}

func (s *server) handleProfileUpdate(c *gin.Context) {
	var form muser.ProfileForm
	if !s.bind(c, &form) {
		return
	}

	p := muser.NewProfile(s.users, s.auth.SessionFor(c))
	if err := p.Update(c.Request.Context(), form); err != nil {
		s.fail(c, err)
		return
	}
	s.done(c, http.StatusOK, ProfileVM{User: p.User}, "/profile")
}
