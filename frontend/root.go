package frontend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var rootTmpl = tmpl(`<h1>Engelsystem</h1>

	{{ if .LoggedIn }}
		<p>{{ .T "Welcome %s!" .User.Username }}</p>
	{{ else }}
		<p><a href="signin">{{ .T "Login" }}</a></p>
	{{ end }}

	<ul>
		<li><a href="shifts">{{ .T "Shifts" }}</a></li>
		<li><a href="api/tasks">{{ .T "Tasks" }}</a> (JSON)</li>
	</ul>`)

func root(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {
	return render(w, rootTmpl, ctx)
}
