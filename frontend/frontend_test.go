package frontend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engelsystem/engelsystem/core"
	"github.com/engelsystem/engelsystem/seed"
	"github.com/engelsystem/engelsystem/sqldb/sqldbtest"
)

// newServer returns a CoreDB with the seed fixture and the frontend handler.
func newServer(t *testing.T, name string, corsOrigins ...string) (*core.CoreDB, http.Handler) {
	t.Helper()

	c := sqldbtest.Open(t, name)

	file, err := os.Open("../seed/testdata/fixture.yaml")
	require.NoError(t, err)
	defer file.Close()

	fixture, err := seed.Load(file)
	require.NoError(t, err)
	require.NoError(t, seed.Apply(c, fixture))

	return c, NewRouter(c, "", corsOrigins)
}

type option func(*http.Request)

func basic(username, password string) option {
	return func(r *http.Request) {
		r.SetBasicAuth(username, password)
	}
}

func header(key, value string) option {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func get(h http.Handler, target string, opts ...option) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestLoginChallenge(t *testing.T) {
	_, h := newServer(t, "frontendlogin")

	rec := get(h, "/login")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Login Required"`, rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Could not verify your access level for that URL.\nYou have to login with proper credentials", rec.Body.String())
}

func TestUserPage(t *testing.T) {
	_, h := newServer(t, "frontenduser")

	rec := get(h, "/user/alice")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Login Required"`, rec.Header().Get("WWW-Authenticate"))

	rec = get(h, "/user/alice", basic("bob", "builder"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "bob lacks show_user")

	rec = get(h, "/user/alice", basic("alice", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(h, "/user/bob", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Angel")
	assert.Contains(t, rec.Body.String(), "Bartender")
	assert.Contains(t, rec.Body.String(), "freeloaded")

	rec = get(h, "/user/nobody", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersPage(t *testing.T) {
	_, h := newServer(t, "frontendusers")

	rec := get(h, "/users", basic("alice", "wonderland"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="user/bob"`)
	assert.Contains(t, rec.Body.String(), "Alice Liddell")

	rec = get(h, "/users")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIUserRead(t *testing.T) {
	_, h := newServer(t, "frontendapiuser")

	rec := get(h, "/api/user/alice/read")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"unauth"}`, rec.Body.String())

	rec = get(h, "/api/user/alice/read", basic("bob", "builder"))
	assert.JSONEq(t, `{"status":"error","error":"unauth"}`, rec.Body.String())

	rec = get(h, "/api/user/alice/read", basic("alice", "wonderland"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"id": 1,
		"username": "alice",
		"realname": "Alice Liddell",
		"hometown": "Oxford",
		"arrived": true,
		"active": true,
		"tshirt": false,
		"locale": "en"
	}`, rec.Body.String())

	m := decode(t, get(h, "/api/user/bob/read", basic("alice", "wonderland")))
	assert.Equal(t, "bob", m["username"])
	assert.NotContains(t, m, "realname", "null strings are omitted")
	assert.NotContains(t, m, "password")

	rec = get(h, "/api/user/nobody/read", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"not found"}`, rec.Body.String())
}

func TestSessionKey(t *testing.T) {
	c, h := newServer(t, "frontendkey")

	alice, err := c.GetUserByName("alice")
	require.NoError(t, err)

	var now = time.Now()
	c.Now = func() time.Time { return now }
	c.KeyLifetime = time.Hour

	s, err := c.NewSession(alice)
	require.NoError(t, err)

	m := decode(t, get(h, "/api/user/bob/read?key="+s.Key()))
	assert.Equal(t, "bob", m["username"])

	rec := get(h, "/user/bob?key="+s.Key())
	assert.Equal(t, http.StatusOK, rec.Code)

	m = decode(t, get(h, "/api/user/bob/read?key=nothex", basic("alice", "wonderland")))
	assert.Equal(t, "unauth", m["error"], "an invalid key is not overridden by basic auth")

	now = now.Add(2 * time.Hour)
	m = decode(t, get(h, "/api/user/bob/read?key="+s.Key()))
	assert.Equal(t, "unauth", m["error"], "expired key")
}

func TestAPIPublic(t *testing.T) {
	_, h := newServer(t, "frontendapipublic")

	rec := get(h, "/api/rooms")
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, "Bar", rooms[0]["name"])
	assert.Equal(t, "Heaven", rooms[1]["name"])

	rec = get(h, "/api/room/1/shifts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"id": 1,
		"room_id": 1,
		"title": "Opening",
		"begin": "2026-08-01T10:00:00Z",
		"end": "2026-08-01T14:00:00Z"
	}]`, rec.Body.String())

	rec = get(h, "/api/room/3/shifts")
	assert.Equal(t, http.StatusNotFound, rec.Code, "hidden room")

	rec = get(h, "/api/room/abc/shifts")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(h, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"not found"}`, rec.Body.String())

	rec = get(h, "/api/tasks", header("Accept-Language", "de"))
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Tresen", tasks[0]["texts"].(map[string]interface{})["de"].(map[string]interface{})["name"])
}

func TestAPIShiftRead(t *testing.T) {
	_, h := newServer(t, "frontendapishift")

	rec := get(h, "/api/shift/1/read", header("Accept-Language", "de-DE"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"shift": {"id": 1, "room_id": 1, "title": "Opening", "begin": "2026-08-01T10:00:00Z", "end": "2026-08-01T14:00:00Z"},
		"room": {"id": 1, "name": "Bar", "description": "next to the main stage", "order": 1},
		"allocations": [{"id": 2, "task_id": 1, "task": "Tresen", "amount": 3, "taken": 2, "free": 1}],
		"defaults": [{"id": 1, "task_id": 1, "task": "Tresen", "amount": 2, "taken": 0, "free": 2}]
	}`, rec.Body.String())

	m := decode(t, get(h, "/api/shift/1/read", basic("alice", "wonderland")))
	allocs := m["allocations"].([]interface{})
	require.Len(t, allocs, 1)
	assert.Equal(t, []interface{}{"alice", "bob"}, allocs[0].(map[string]interface{})["users"])
	assert.Equal(t, "Bartender", allocs[0].(map[string]interface{})["task"])

	rec = get(h, "/api/shift/99/read")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShiftPages(t *testing.T) {
	_, h := newServer(t, "frontendshifts")

	rec := get(h, "/shifts")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Bar")
	assert.Contains(t, body, "Opening")
	assert.Contains(t, body, "August 1, 2026")
	assert.NotContains(t, body, "Backstage")

	rec = get(h, "/shifts", header("Accept-Language", "de-DE,de;q=0.9"))
	assert.Contains(t, rec.Body.String(), "<h1>Schichten</h1>")
	assert.Contains(t, rec.Body.String(), `lang="de"`)

	rec = get(h, "/shifts", basic("bob", "builder"), header("Accept-Language", "en"))
	assert.Contains(t, rec.Body.String(), "<h1>Schichten</h1>", "user locale wins")

	rec = get(h, "/shift/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Bartender")
	assert.Contains(t, body, "<em>drinks</em>")
	assert.NotContains(t, body, `href="user/alice"`, "anonymous users don't see names")

	rec = get(h, "/shift/1", basic("alice", "wonderland"))
	assert.Contains(t, rec.Body.String(), `href="user/alice"`)

	rec = get(h, "/shift/2")
	assert.Contains(t, rec.Body.String(), "restricted")

	rec = get(h, "/shift/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignin(t *testing.T) {
	_, h := newServer(t, "frontendsignin")

	var post = func(username, password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post("alice", "wrong")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wrong username or password")
	assert.Contains(t, rec.Body.String(), `value="alice"`)

	rec = post("alice", "wonderland")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var withCookies = func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}

	rec = get(h, "/", withCookies)
	assert.Contains(t, rec.Body.String(), "Welcome alice!")

	rec = get(h, "/user/bob", withCookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(h, "/logout", withCookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	if logoutCookies := rec.Result().Cookies(); len(logoutCookies) > 0 {
		cookies = logoutCookies
	}
	rec = get(h, "/user/bob", withCookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingPermission(t *testing.T) {
	c, _ := newServer(t, "frontendmissing")

	var handle = middleware(c, "", permission("launch_rockets", root))
	var h = c.SessionManager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle(w, r, httprouter.Params{})
	}))

	rec := get(h, "/", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var apiHandle = api(c, "launch_rockets", apiRooms)
	h = c.SessionManager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiHandle(w, r, httprouter.Params{})
	}))

	rec = get(h, "/api/rooms", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"internal"}`, rec.Body.String())

	rec = get(h, "/api/rooms")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"unauth"}`, rec.Body.String())
}

func TestAnonymousOnEmptyDatabase(t *testing.T) {
	c := sqldbtest.Open(t, "frontendempty")
	sqldbtest.MustUser(t, c, "alice", "wonderland")
	h := NewRouter(c, "", nil)

	rec := get(h, "/users")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Login Required"`, rec.Header().Get("WWW-Authenticate"))

	rec = get(h, "/user/alice")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(h, "/api/user/alice/read")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"unauth"}`, rec.Body.String())

	rec = get(h, "/api/user/alice/read", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "show_user has not been created")

	rec = get(h, "/shifts")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHiddenRoomShift(t *testing.T) {
	c, h := newServer(t, "frontendhidden")

	rooms, err := c.GetAllRooms()
	require.NoError(t, err)
	var backstage *core.Room
	for _, r := range rooms {
		if r.Name == "Backstage" {
			backstage = r
		}
	}
	require.NotNil(t, backstage)
	require.False(t, backstage.Visible)

	var begin = time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	var secret = &core.Shift{RoomID: backstage.ID, Title: "Secret soundcheck", Begin: begin, End: begin.Add(time.Hour)}
	require.NoError(t, c.InsertShift(secret))
	var id = strconv.Itoa(secret.ID)

	rec := get(h, "/api/room/"+strconv.Itoa(backstage.ID)+"/shifts")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(h, "/api/shift/"+id+"/read", basic("alice", "wonderland"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"not found"}`, rec.Body.String())

	rec = get(h, "/shift/"+id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Secret soundcheck")
}

func TestRequestID(t *testing.T) {
	_, h := newServer(t, "frontendrequestid")

	rec := get(h, "/")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	rec = get(h, "/", header("X-Request-ID", "abc-123"))
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	_, h := newServer(t, "frontendcors", "https://planner.example.org")

	rec := get(h, "/api/rooms", header("Origin", "https://planner.example.org"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://planner.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(h, "/api/rooms", header("Origin", "https://evil.example.com"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(h, "/shifts", header("Origin", "https://planner.example.org"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), "pages are not shared")
}
