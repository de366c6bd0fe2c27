// Package frontend serves the HTML pages and the JSON API.
package frontend

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/engelsystem/engelsystem/core"
	"github.com/engelsystem/engelsystem/util"
)

const loginRequired = "Could not verify your access level for that URL.\nYou have to login with proper credentials"

// we need the CoreDB in the frontend
type route struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func (ctx *route) logger() *zap.Logger {
	return ctx.db.Log.With(zap.String("request_id", RequestID(ctx.Context())))
}

type handler func(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error

func middleware(db *core.CoreDB, prefix string, f handler) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &route{
			Prefix:  prefix + "/",
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer ctx.Cleanup()

		if err := f(w, req, ctx, params); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				http.NotFound(w, req)
				return
			}
			ctx.logger().Error("handling request", zap.String("path", req.URL.Path), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// permission wraps a page which requires the named permission.
// Anonymous users and users without the permission get the basic auth challenge.
func permission(name string, f handler) handler {
	return func(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {
		ok, err := ctx.HasPermission(name)
		if err != nil {
			return err
		}
		if !ok {
			challenge(w)
			return nil
		}
		return f(w, req, ctx, params)
	}
}

// challenge makes the browser ask for HTTP basic auth credentials.
func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(loginRequired))
}

// NewRouter returns the complete handler, including cookie sessions and request logging.
func NewRouter(db *core.CoreDB, prefix string, corsOrigins []string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// pages
	router.GET("/", middleware(db, prefix, root))
	router.GET("/login", middleware(db, prefix, login))
	GETAndPOST("/signin", middleware(db, prefix, signin))
	router.GET("/logout", middleware(db, prefix, logout))
	router.GET("/shifts", middleware(db, prefix, shifts))
	router.GET("/shift/:id", middleware(db, prefix, shift))
	router.GET("/user/:username", middleware(db, prefix, permission("show_user", user)))
	router.GET("/users", middleware(db, prefix, permission("show_user", users)))

	// api
	router.GET("/api/user/:username/read", api(db, "show_user", apiUserRead))
	router.GET("/api/user/:username/shifts", api(db, "show_user", apiUserShifts))
	router.GET("/api/rooms", api(db, "", apiRooms))
	router.GET("/api/room/:id/shifts", api(db, "", apiRoomShifts))
	router.GET("/api/shift/:id/read", api(db, "", apiShiftRead))
	router.GET("/api/tasks", api(db, "", apiTasks))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if isAPI(req) {
			writeJSON(w, http.StatusNotFound, apiError("not found"))
			return
		}
		http.NotFound(w, req)
	})

	router.PanicHandler = func(w http.ResponseWriter, req *http.Request, v interface{}) {
		db.Log.Error("panic", zap.String("path", req.URL.Path), zap.String("request_id", RequestID(req.Context())), zap.Any("panic", v))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}

	var apiHandler http.Handler = router
	if len(corsOrigins) > 0 {
		apiHandler = cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		})(router)
	}

	return logRequests(db.Log, db.SessionManager.LoadAndSave(http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			if isAPI(req) {
				apiHandler.ServeHTTP(w, req)
			} else {
				router.ServeHTTP(w, req)
			}
		},
	)))
}

func isAPI(req *http.Request) bool {
	return strings.HasPrefix(req.URL.Path, "/api/")
}

// render executes the template into a buffer first, so a template error results in a clean error response.
func render(w http.ResponseWriter, t *template.Template, data interface{}) error {
	var buf = &bytes.Buffer{}
	if err := t.Execute(buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func tmpl(text string) *template.Template {
	t := template.Must(frontendTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var frontendTmpl = template.Must(template.New("frontend").Funcs(
	template.FuncMap{
		"Excerpt": func(src string) string {
			return util.Excerpt(src, 120)
		},
		"Markdown": util.Markdown,
		"Trunc":    util.Trunc,
	},
).Parse(`<!DOCTYPE html>
<html lang="{{ .Language }}">
	<head>
		<base href="{{ .Prefix }}">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>Engelsystem</title>

		<style>

			body {
				font-family: sans-serif;
				margin: 0 auto;
				max-width: 60rem;
				padding: 0 1rem 1rem;
			}

			nav ul {
				list-style: none;
				padding: 0;
			}

			nav li {
				display: inline-block;
				margin-right: 1rem;
			}

			.alert {
				border: 1px solid transparent;
				border-radius: .2rem;
				padding: .5rem;
			}

			.alert-danger {
				background-color: #f8d7da;
			}

			.alert-success {
				background-color: #d4edda;
			}

			.pagination li {
				display: inline-block;
				margin-right: .5rem;
			}

			.text-muted {
				color: #6c757d;
			}

			table {
				border-collapse: collapse;
				margin-top: 0.5rem;
			}

			td, th {
				border-bottom: 1px solid #dee2e6;
				padding: .3rem .6rem;
				text-align: left;
			}

		</style>
	</head>
	<body>

		<nav>
			<ul>
				<li><a href="">Engelsystem</a></li>
				<li><a href="shifts">{{ .T "Shifts" }}</a></li>
				{{ if .LoggedIn }}
					{{ if .Can "show_user" }}
						<li><a href="users">{{ .T "Users" }}</a></li>
						<li><a href="user/{{ .User.Username }}">{{ .User.Username }}</a></li>
					{{ else }}
						<li>{{ .User.Username }}</li>
					{{ end }}
					<li><a href="logout">{{ .T "Logout" }}</a></li>
				{{ else }}
					<li><a href="signin">{{ .T "Login" }}</a></li>
				{{ end }}
			</ul>
		</nav>

		{{ .RenderNotifications }}
		{{ template "content" . }}

	</body>
</html>`))
