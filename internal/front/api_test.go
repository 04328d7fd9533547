package front

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"kyri56xcaesar/abac-front/internal/apitest"
)

func newTestServer(t *testing.T) (*apitest.Backend, *server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := apitest.New(t)
	s := newServer(Config{
		BackendURL:     b.URL(),
		APIKey:         b.APIKey,
		SessionCookie:  "token",
		TemplatesPath:  "web/templates",
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
	})
	return b, s
}

func (s *server) call(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestHealthz(t *testing.T) {
	_, s := newTestServer(t)

	w := s.call(http.MethodGet, "/healthz?format=json", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "alive" {
		t.Errorf("body = %v", body)
	}
}

func TestProtectedScreensRequireSession(t *testing.T) {
	_, s := newTestServer(t)

	w := s.call(http.MethodGet, "/select-team", "", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("browser: status = %d location = %q", w.Code, w.Header().Get("Location"))
	}

	w = s.call(http.MethodGet, "/select-team?format=json", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("json: status = %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	b, s := newTestServer(t)
	b.AddUser("alice", "secret", "Alice")

	t.Run("sets the session cookie and redirects", func(t *testing.T) {
		w := s.call(http.MethodPost, "/login", "", url.Values{"username": {"alice"}, "password": {"secret"}})
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/select-team" {
			t.Fatalf("status = %d location = %q", w.Code, w.Header().Get("Location"))
		}
		if !strings.Contains(w.Header().Get("Set-Cookie"), "token=ey") {
			t.Errorf("Set-Cookie = %q", w.Header().Get("Set-Cookie"))
		}
	})

	t.Run("wrong password renders the login page", func(t *testing.T) {
		w := s.call(http.MethodPost, "/login", "", url.Values{"username": {"alice"}, "password": {"nope"}})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Invalid username or password") {
			t.Errorf("body does not carry the server message: %s", w.Body.String())
		}
		if strings.Contains(w.Header().Get("Set-Cookie"), "token=ey") {
			t.Error("failed login stored a token")
		}
	})

	t.Run("empty fields are rejected locally", func(t *testing.T) {
		b.ResetCalls()
		w := s.call(http.MethodPost, "/login?format=json", "", url.Values{"username": {"alice"}})
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", w.Code)
		}
		var body map[string]string
		decode(t, w, &body)
		if body["field"] != "password" {
			t.Errorf("body = %v", body)
		}
		if len(b.Calls()) != 0 {
			t.Error("validation failure reached the backend")
		}
	})
}

func TestRegister(t *testing.T) {
	b, s := newTestServer(t)

	form := url.Values{"name": {"Bob"}, "username": {"bob"}, "password": {"pw"}, "repeat-password": {"px"}}
	w := s.call(http.MethodPost, "/register?format=json", "", form)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("mismatch: status = %d", w.Code)
	}

	form.Set("repeat-password", "pw")
	w = s.call(http.MethodPost, "/register", "", form)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status = %d location = %q", w.Code, w.Header().Get("Location"))
	}
	if len(b.CallsTo(http.MethodPost, "/user")) != 1 {
		t.Error("expected one POST /user")
	}
}

func TestTeamList(t *testing.T) {
	b, s := newTestServer(t)
	alice := b.AddUser("alice", "pw", "Alice")
	bob := b.AddUser("bob", "pw", "Bob")
	own := b.AddTeam("mine", alice)
	other := b.AddTeam("theirs", bob)
	b.AddMember(other, alice)

	w := s.call(http.MethodGet, "/select-team?format=json", b.Token(alice), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var vm TeamListVM
	decode(t, w, &vm)
	if vm.State != "loaded" || len(vm.Rows) != 2 {
		t.Fatalf("vm = %+v", vm)
	}
	for _, row := range vm.Rows {
		if want := row.Team.TeamID == own; row.IsOwner != want {
			t.Errorf("team %s: IsOwner = %v", row.Team.Name, row.IsOwner)
		}
	}

	html := s.call(http.MethodGet, "/select-team", b.Token(alice), nil)
	if html.Code != http.StatusOK || !strings.Contains(html.Body.String(), "theirs") {
		t.Errorf("html: status = %d", html.Code)
	}
}

func TestTeamCreate(t *testing.T) {
	b, s := newTestServer(t)
	me := b.AddUser("me", "pw", "Me")
	a := b.AddUser("a", "pw", "A")
	c := b.AddUser("c", "pw", "C")

	t.Run("owner first then members", func(t *testing.T) {
		form := url.Values{"team_name": {"core"}, "add": {"a", "", "c"}}
		w := s.call(http.MethodPost, "/teams?format=json", b.Token(me), form)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
		}
		var saved TeamSavedVM
		decode(t, w, &saved)
		if got, want := b.Members(saved.Team.TeamID), []int64{me, a, c}; !reflect.DeepEqual(got, want) {
			t.Errorf("members = %v, expected %v", got, want)
		}
	})

	t.Run("self add never reaches the backend", func(t *testing.T) {
		b.ResetCalls()
		w := s.call(http.MethodPost, "/teams?format=json", b.Token(me), url.Values{"team_name": {"x"}, "add": {"me"}})
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", w.Code)
		}
		if n := len(b.CallsTo(http.MethodPost, "/team")); n != 0 {
			t.Errorf("%d POST /team calls", n)
		}
	})

	t.Run("browser is redirected to the list", func(t *testing.T) {
		w := s.call(http.MethodPost, "/teams", b.Token(me), url.Values{"team_name": {"other"}})
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/select-team" {
			t.Errorf("status = %d location = %q", w.Code, w.Header().Get("Location"))
		}
	})
}

func TestTeamUpdateAndDelete(t *testing.T) {
	b, s := newTestServer(t)
	me := b.AddUser("me", "pw", "Me")
	a := b.AddUser("a", "pw", "A")
	bob := b.AddUser("bob", "pw", "Bob")
	teamID := b.AddTeam("core", me)
	b.AddMember(teamID, a)

	w := s.call(http.MethodPost, "/teams/"+id(teamID)+"?format=json", b.Token(bob), url.Values{"team_name": {"hijack"}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("non-owner edit: status = %d", w.Code)
	}

	form := url.Values{"team_name": {"renamed"}, "remove": {id(a)}, "add": {"bob"}}
	w = s.call(http.MethodPost, "/teams/"+id(teamID)+"?format=json", b.Token(me), form)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if got, want := b.Members(teamID), []int64{me, bob}; !reflect.DeepEqual(got, want) {
		t.Errorf("members = %v, expected %v", got, want)
	}
	if team, _ := b.Team(teamID); team.TeamName != "renamed" {
		t.Errorf("team = %+v", team)
	}

	w = s.call(http.MethodPost, "/teams/"+id(teamID)+"/delete?format=json", b.Token(me), url.Values{})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = s.call(http.MethodPost, "/teams/"+id(teamID)+"/delete?format=json", b.Token(me), url.Values{})
	if w.Code != http.StatusNotFound {
		t.Errorf("repeated delete: status = %d", w.Code)
	}
}

func boardFixture(t *testing.T) (b *apitest.Backend, s *server, me, a, c, teamID, taskID int64) {
	b, s = newTestServer(t)
	me = b.AddUser("me", "pw", "Me")
	a = b.AddUser("a", "pw", "A")
	c = b.AddUser("c", "pw", "C")
	teamID = b.AddTeam("core", me)
	b.AddMember(teamID, a)
	b.AddMember(teamID, c)
	taskID = b.AddTask(apitest.Task{Title: "done one", TeamID: teamID, CreateBy: me, Status: "done", DueDate: "2024-03-10"})
	b.AddTask(apitest.Task{Title: "open one", TeamID: teamID, CreateBy: a})
	b.Assign(taskID, a)
	return
}

func TestBoard(t *testing.T) {
	b, s, me, a, _, teamID, taskID := boardFixture(t)

	w := s.call(http.MethodGet, "/team/"+id(teamID)+"?format=json&status=done", b.Token(me), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var vm BoardVM
	decode(t, w, &vm)
	if vm.Total != 2 || len(vm.Rows) != 1 || vm.Rows[0].Task.ID != taskID {
		t.Errorf("vm = %+v", vm)
	}

	w = s.call(http.MethodGet, "/team/"+id(teamID)+"?format=json&view=mine", b.Token(a), nil)
	decode(t, w, &vm)
	if vm.View != "mine" || len(vm.Rows) != 1 || !vm.Rows[0].Assigned || !vm.Rows[0].CanEdit {
		t.Errorf("mine vm = %+v", vm)
	}

	html := s.call(http.MethodGet, "/team/"+id(teamID), b.Token(me), nil)
	if html.Code != http.StatusOK || !strings.Contains(html.Body.String(), "open one") {
		t.Errorf("html: status = %d", html.Code)
	}
}

func TestBoard_BadFilterIsLocal(t *testing.T) {
	b, s, me, _, _, teamID, _ := boardFixture(t)
	b.ResetCalls()

	w := s.call(http.MethodGet, "/team/"+id(teamID)+"?format=json&status=archived", b.Token(me), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	if len(b.Calls()) != 0 {
		t.Error("bad filter reached the backend")
	}
}

func TestTaskCreateAndEdit(t *testing.T) {
	b, s, me, a, c, teamID, taskID := boardFixture(t)

	form := url.Values{"title": {"new"}, "due_date": {"2024-06-01"}, "assignees": {id(a), id(c)}}
	w := s.call(http.MethodPost, "/team/"+id(teamID)+"/tasks?format=json", b.Token(me), form)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body = %s", w.Code, w.Body.String())
	}
	var saved TaskSavedVM
	decode(t, w, &saved)
	if saved.Task.Status != "pending" || !reflect.DeepEqual(b.Assignees(saved.Task.ID), []int64{a, c}) {
		t.Errorf("saved = %+v assignees = %v", saved, b.Assignees(saved.Task.ID))
	}

	form = url.Values{"title": {"done one"}, "status": {"failed"}, "assignees": {id(c)}}
	w = s.call(http.MethodPost, "/team/"+id(teamID)+"/tasks/"+id(taskID)+"?format=json", b.Token(me), form)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status = %d body = %s", w.Code, w.Body.String())
	}
	if got := b.Assignees(taskID); !reflect.DeepEqual(got, []int64{c}) {
		t.Errorf("assignees = %v", got)
	}
	if task, _ := b.Task(taskID); task.Status != "failed" {
		t.Errorf("task = %+v", task)
	}

	w = s.call(http.MethodPost, "/team/"+id(teamID)+"/tasks/"+id(taskID), b.Token(me), url.Values{"title": {"x"}, "assignees": {"999"}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("non-member assignee: status = %d", w.Code)
	}
}

func TestTaskEdit_ForbiddenForOutsiders(t *testing.T) {
	b, s, _, _, c, teamID, _ := boardFixture(t)
	open := b.AddTask(apitest.Task{Title: "foreign", TeamID: teamID, CreateBy: 1})

	w := s.call(http.MethodGet, "/team/"+id(teamID)+"/tasks/"+id(open)+"/edit?format=json", b.Token(c), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", w.Code)
	}

	w = s.call(http.MethodGet, "/team/"+id(teamID)+"/tasks/99999/edit?format=json", b.Token(c), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing task: status = %d", w.Code)
	}
}

func TestTaskDelete(t *testing.T) {
	b, s, me, _, _, teamID, taskID := boardFixture(t)

	w := s.call(http.MethodPost, "/team/"+id(teamID)+"/tasks/"+id(taskID)+"/delete", b.Token(me), url.Values{})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/team/"+id(teamID) {
		t.Fatalf("status = %d location = %q", w.Code, w.Header().Get("Location"))
	}
	if _, ok := b.Task(taskID); ok {
		t.Error("task still exists")
	}
}

func TestDelete_RejectsEntitiesOutsideTheScreen(t *testing.T) {
	b, s := newTestServer(t)
	mallory := b.AddUser("mallory", "pw", "Mallory")
	bob := b.AddUser("bob", "pw", "Bob")
	mine := b.AddTeam("mine", mallory)
	theirs := b.AddTeam("theirs", bob)
	theirTask := b.AddTask(apitest.Task{Title: "bob's", TeamID: theirs, CreateBy: bob})

	w := s.call(http.MethodPost, "/team/"+id(mine)+"/tasks/"+id(theirTask)+"/delete?format=json", b.Token(mallory), url.Values{})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("task delete: status = %d body = %s", w.Code, w.Body.String())
	}
	if _, ok := b.Task(theirTask); !ok {
		t.Error("task of another team was deleted")
	}

	w = s.call(http.MethodPost, "/teams/"+id(theirs)+"/delete?format=json", b.Token(mallory), url.Values{})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("team delete: status = %d body = %s", w.Code, w.Body.String())
	}
	if _, ok := b.Team(theirs); !ok {
		t.Error("team owned by someone else was deleted")
	}
	if n := len(b.CallsTo(http.MethodDelete, "/")); n != 0 {
		t.Errorf("%d delete calls reached the backend", n)
	}

	w = s.call(http.MethodPost, "/team/"+id(mine)+"/tasks/999/delete?format=json", b.Token(mallory), url.Values{})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing task: status = %d", w.Code)
	}
}

func TestProfile(t *testing.T) {
	b, s := newTestServer(t)
	me := b.AddUser("me", "pw", "Me")

	form := url.Values{"username": {"me"}, "name": {"Me Myself"}, "address": {"Street 1"}}
	w := s.call(http.MethodPost, "/profile?format=json", b.Token(me), form)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var vm ProfileVM
	decode(t, w, &vm)
	if vm.User.Name != "Me Myself" || vm.User.Address != "Street 1" {
		t.Errorf("vm = %+v", vm)
	}

	html := s.call(http.MethodGet, "/profile", b.Token(me), nil)
	if html.Code != http.StatusOK || !strings.Contains(html.Body.String(), "Street 1") {
		t.Errorf("html: status = %d", html.Code)
	}

	w = s.call(http.MethodPost, "/profile?format=json", b.Token(me), url.Values{"username": {"me"}})
	if w.Code != http.StatusOK {
		t.Fatalf("username only: status = %d body = %s", w.Code, w.Body.String())
	}
	if u, _ := b.User(me); u.Name != "Me Myself" || u.Address != "Street 1" {
		t.Errorf("fields not posted were overwritten: %+v", u)
	}
}

func TestBackendDownIsBadGateway(t *testing.T) {
	b, s := newTestServer(t)
	me := b.AddUser("me", "pw", "Me")
	token := b.Token(me)
	b.Close()

	w := s.call(http.MethodGet, "/select-team?format=json", token, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["error"] != "Network error. Please try again later." {
		t.Errorf("body = %v", body)
	}
}

func TestLogout(t *testing.T) {
	_, s := newTestServer(t)

	w := s.call(http.MethodGet, "/logout", "", nil)
	if w.Code != http.StatusSeeOther || !strings.Contains(w.Header().Get("Set-Cookie"), "token=;") {
		t.Errorf("status = %d Set-Cookie = %q", w.Code, w.Header().Get("Set-Cookie"))
	}
}
