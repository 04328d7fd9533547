package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/* user */

func (b *Backend) listUsers(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": append([]User{}, b.users...)})
}

func (b *Backend) getUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, found := b.userByID(id)
	if !found {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": u})
}

func (b *Backend) createUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Username == req.Username {
			c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
			return
		}
	}
	u := User{ID: b.id(), Username: req.Username, Password: req.Password, Name: req.Name}
	b.users = append(b.users, u)
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "userId": u.ID})
}

func (b *Backend) updateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Username    *string `json:"username"`
		Password    *string `json:"password"`
		Name        *string `json:"name"`
		Address     *string `json:"address"`
		PhoneNumber *string `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID != id {
			continue
		}
		u := &b.users[i]
		if req.Username != nil {
			u.Username = *req.Username
		}
		if req.Password != nil {
			u.Password = *req.Password
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Address != nil {
			u.Address = *req.Address
		}
		if req.PhoneNumber != nil {
			u.PhoneNumber = *req.PhoneNumber
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated"})
		return
	}
	notFound(c, "User")
}

func (b *Backend) deleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, u := range b.users {
		if u.ID == id {
			b.users = append(b.users[:i], b.users[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
			return
		}
	}
	notFound(c, "User")
}

/* team */

func (b *Backend) listTeams(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": append([]Team{}, b.teams...)})
}

func (b *Backend) getTeam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.teamIndex(id)
	if i < 0 {
		notFound(c, "Team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": b.teams[i]})
}

func (b *Backend) createTeam(c *gin.Context) {
	var req Team
	if err := c.ShouldBindJSON(&req); err != nil || req.TeamName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "team_name is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	req.TeamID = b.id()
	b.teams = append(b.teams, req)
	c.JSON(http.StatusCreated, gin.H{"message": "Team created", "teamId": req.TeamID})
}

func (b *Backend) updateTeam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TeamName    *string `json:"team_name"`
		Description *string `json:"team_description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.teamIndex(id)
	if i < 0 {
		notFound(c, "Team")
		return
	}
	if req.TeamName != nil {
		b.teams[i].TeamName = *req.TeamName
	}
	if req.Description != nil {
		b.teams[i].Description = *req.Description
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team updated"})
}

func (b *Backend) deleteTeam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.teamIndex(id)
	if i < 0 {
		notFound(c, "Team")
		return
	}
	b.teams = append(b.teams[:i], b.teams[i+1:]...)
	kept := b.memberships[:0]
	for _, m := range b.memberships {
		if m.TeamID != id {
			kept = append(kept, m)
		}
	}
	b.memberships = kept
	c.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
}

/* user_by_team */

func (b *Backend) listMemberships(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": append([]Membership{}, b.memberships...)})
}

func (b *Backend) teamsByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	teams := []Team{}
	for _, m := range b.memberships {
		if m.UserID != userID {
			continue
		}
		if i := b.teamIndex(m.TeamID); i >= 0 {
			teams = append(teams, b.teams[i])
		}
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (b *Backend) usersByTeam(c *gin.Context) {
	teamID, ok := paramID(c, "teamId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	users := []Membership{}
	for _, m := range b.memberships {
		if m.TeamID == teamID {
			users = append(users, m)
		}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (b *Backend) createMembership(c *gin.Context) {
	var req struct {
		TeamID int64 `json:"team_id"`
		UserID int64 `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TeamID == 0 || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "team_id and user_id are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.teamIndex(req.TeamID) < 0 {
		notFound(c, "Team")
		return
	}
	id := b.addMembership(req.TeamID, req.UserID)
	c.JSON(http.StatusCreated, gin.H{"message": "User added to team", "id": id})
}

func (b *Backend) deleteMembership(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.memberships {
		if m.ID == id {
			b.memberships = append(b.memberships[:i], b.memberships[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "User removed from team"})
			return
		}
	}
	notFound(c, "Membership")
}

/* task */

func (b *Backend) listTasks(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": append([]Task{}, b.tasks...)})
}

func (b *Backend) getTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		notFound(c, "Task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": b.tasks[i]})
}

func (b *Backend) tasksByTeam(c *gin.Context) {
	teamID, ok := paramID(c, "teamId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	tasks := []Task{}
	for _, t := range b.tasks {
		if t.TeamID == teamID {
			tasks = append(tasks, t)
		}
	}
	c.JSON(http.StatusOK, gin.H{"records": tasks})
}

func (b *Backend) createTask(c *gin.Context) {
	var req Task
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.TeamID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and team_id are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	req.ID = b.id()
	if req.Status == "" {
		req.Status = "pending"
	}
	b.tasks = append(b.tasks, req)
	c.JSON(http.StatusCreated, gin.H{"message": "Task created", "taskId": req.ID})
}

func (b *Backend) updateTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"task_description"`
		DueDate     *string `json:"due_date"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		notFound(c, "Task")
		return
	}
	t := &b.tasks[i]
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

func (b *Backend) deleteTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		notFound(c, "Task")
		return
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

/* task_by_user */

func (b *Backend) listAssignments(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": append([]Assignment{}, b.assignments...)})
}

func (b *Backend) taskIDsByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := []int64{}
	for _, a := range b.assignments {
		if a.UserID == userID {
			ids = append(ids, a.TaskID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"taskIds": ids})
}

func (b *Backend) userIDsByTask(c *gin.Context) {
	taskID, ok := paramID(c, "taskId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"userIds": b.assigneesOf(taskID)})
}

func (b *Backend) createAssignment(c *gin.Context) {
	var req struct {
		TaskID int64 `json:"task_id"`
		UserID int64 `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == 0 || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "task_id and user_id are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := Assignment{ID: b.id(), TaskID: req.TaskID, UserID: req.UserID}
	b.assignments = append(b.assignments, a)
	c.JSON(http.StatusCreated, gin.H{"message": "Task assigned", "id": a.ID})
}

func (b *Backend) deleteAssignment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range b.assignments {
		if a.ID == id {
			b.assignments = append(b.assignments[:i], b.assignments[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
			return
		}
	}
	notFound(c, "Assignment")
}

func (b *Backend) clearAssignments(c *gin.Context) {
	taskID, ok := paramID(c, "taskId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.assignments[:0]
	deleted := 0
	for _, a := range b.assignments {
		if a.TaskID == taskID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	b.assignments = kept
	c.JSON(http.StatusOK, gin.H{"message": "Assignments deleted", "deleted": deleted})
}
