// Package apitest runs an in-memory copy of the backend REST surface on an httptest server.
// It records every call so tests can assert on the exact sequence the front issued.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAPIKey = "test-api-key"
	secret        = "apitest-secret"
)

type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"-"`
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type Team struct {
	TeamID      int64  `json:"team_id"`
	TeamName    string `json:"team_name"`
	Description string `json:"team_description,omitempty"`
	Owner       int64  `json:"owner"`
	CreatedBy   int64  `json:"created_by"`
}

type Membership struct {
	ID       int64  `json:"user_by_team_id"`
	TeamID   int64  `json:"team_id"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"task_description,omitempty"`
	TeamID      int64  `json:"team_id"`
	CreateBy    int64  `json:"create_by"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
}

type Assignment struct {
	ID     int64 `json:"id"`
	TaskID int64 `json:"task_id"`
	UserID int64 `json:"user_id"`
}

// Call is one request as the backend saw it.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

func (c Call) String() string {
	return c.Method + " " + c.Path
}

type failure struct {
	status  int
	message string
}

type Backend struct {
	APIKey string

	mu          sync.Mutex
	nextID      int64
	users       []User
	teams       []Team
	memberships []Membership
	tasks       []Task
	assignments []Assignment
	calls       []Call
	failures    map[string]failure

	server *httptest.Server
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		APIKey:   DefaultAPIKey,
		nextID:   100,
		failures: map[string]failure{},
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)

	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

// Close stops the server early, e.g. to provoke network errors.
func (b *Backend) Close() {
	b.server.Close()
}

// Fail makes every request matching method and exact path answer with status.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)

	return out
}

// CallsTo filters the recorded calls by method and path prefix.
func (b *Backend) CallsTo(method, prefix string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			out = append(out, c)
		}
	}

	return out
}

func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// Token issues a signed token carrying userId and username claims.
func (b *Backend) Token(userID int64) string {
	b.mu.Lock()
	u, _ := b.userByID(userID)
	b.mu.Unlock()

	return signToken(userID, u.Username)
}

func signToken(userID int64, username string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   userID,
		"username": username,
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}

	return s
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

/* seeding */

func (b *Backend) AddUser(username, password, name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := User{ID: b.id(), Username: username, Password: password, Name: name}
	b.users = append(b.users, u)

	return u.ID
}

// AddTeam seeds a team and its owner membership.
func (b *Backend) AddTeam(name string, owner int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := Team{TeamID: b.id(), TeamName: name, Owner: owner, CreatedBy: owner}
	b.teams = append(b.teams, t)
	b.addMembership(t.TeamID, owner)

	return t.TeamID
}

func (b *Backend) AddMember(teamID, userID int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.addMembership(teamID, userID)
}

func (b *Backend) addMembership(teamID, userID int64) int64 {
	u, _ := b.userByID(userID)
	m := Membership{ID: b.id(), TeamID: teamID, UserID: userID, UserName: u.Username}
	b.memberships = append(b.memberships, m)

	return m.ID
}

func (b *Backend) AddTask(t Task) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = b.id()
	if t.Status == "" {
		t.Status = "pending"
	}
	b.tasks = append(b.tasks, t)

	return t.ID
}

func (b *Backend) Assign(taskID, userID int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := Assignment{ID: b.id(), TaskID: taskID, UserID: userID}
	b.assignments = append(b.assignments, a)

	return a.ID
}

/* inspection */

func (b *Backend) Team(id int64) (Team, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.teamIndex(id)
	if i < 0 {
		return Team{}, false
	}

	return b.teams[i], true
}

func (b *Backend) Task(id int64) (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return Task{}, false
	}

	return b.tasks[i], true
}

func (b *Backend) User(id int64) (User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.userByID(id)
}

// Members returns the user ids in teamID in membership order.
func (b *Backend) Members(teamID int64) []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []int64
	for _, m := range b.memberships {
		if m.TeamID == teamID {
			out = append(out, m.UserID)
		}
	}

	return out
}

// Assignees returns the user ids assigned to taskID in creation order.
func (b *Backend) Assignees(taskID int64) []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.assigneesOf(taskID)
}

func (b *Backend) assigneesOf(taskID int64) []int64 {
	out := []int64{}
	for _, a := range b.assignments {
		if a.TaskID == taskID {
			out = append(out, a.UserID)
		}
	}

	return out
}

func (b *Backend) userByID(id int64) (User, bool) {
	for _, u := range b.users {
		if u.ID == id {
			return u, true
		}
	}

	return User{}, false
}

func (b *Backend) teamIndex(id int64) int {
	for i, t := range b.teams {
		if t.TeamID == id {
			return i
		}
	}

	return -1
}

func (b *Backend) taskIndex(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}

	return -1
}

/* http */

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(b.record, b.requireAPIKey, b.injectFailures)

	r.POST("/login", b.login)

	r.GET("/user", b.listUsers)
	r.GET("/user/:id", b.getUser)
	r.POST("/user", b.createUser)
	r.PATCH("/user/:id", b.updateUser)
	r.DELETE("/user/:id", b.deleteUser)

	r.GET("/team", b.listTeams)
	r.GET("/team/:id", b.getTeam)
	r.POST("/team", b.createTeam)
	r.PATCH("/team/:id", b.updateTeam)
	r.DELETE("/team/:id", b.deleteTeam)

	r.GET("/user_by_team", b.listMemberships)
	r.GET("/user_by_team/user/:userId", b.teamsByUser)
	r.GET("/user_by_team/team/:teamId", b.usersByTeam)
	r.POST("/user_by_team", b.createMembership)
	r.DELETE("/user_by_team/:id", b.deleteMembership)

	r.GET("/task", b.listTasks)
	r.GET("/task/:id", b.getTask)
	r.GET("/task/team/:teamId", b.tasksByTeam)
	r.POST("/task", b.createTask)
	r.PATCH("/task/:id", b.updateTask)
	r.DELETE("/task/:id", b.deleteTask)

	r.GET("/task_by_user", b.listAssignments)
	r.GET("/task_by_user/user/:userId", b.taskIDsByUser)
	r.GET("/task_by_user/task/:taskId", b.userIDsByTask)
	r.POST("/task_by_user", b.createAssignment)
	r.DELETE("/task_by_user/:id", b.deleteAssignment)
	r.DELETE("/task_by_user/task/:taskId", b.clearAssignments)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return r
}

func (b *Backend) record(c *gin.Context) {
	raw, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	call := Call{Method: c.Request.Method, Path: c.Request.URL.Path}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()

	c.Next()
}

func (b *Backend) requireAPIKey(c *gin.Context) {
	if c.GetHeader("x-api-key") != b.APIKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid API key"})
		return
	}
	c.Next()
}

func (b *Backend) injectFailures(c *gin.Context) {
	b.mu.Lock()
	f, ok := b.failures[c.Request.Method+" "+c.Request.URL.Path]
	b.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
		return
	}
	c.Next()
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}

	return id, true
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"message": what + " not found"})
}

func (b *Backend) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Username == req.Username && u.Password == req.Password {
			c.JSON(http.StatusOK, gin.H{"token": signToken(u.ID, u.Username), "message": "Login successful"})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
}
