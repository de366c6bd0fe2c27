package frontend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/engelsystem/engelsystem/core"
)

var userTmpl = tmpl(`<h1>{{ .Profile.User.Username }}</h1>

	<table>
		<tr><th>{{ .T "Real name" }}</th><td>{{ .Profile.User.RealName }}</td></tr>
		<tr><th>{{ .T "Hometown" }}</th><td>{{ .Profile.User.Hometown }}</td></tr>
		<tr><th>{{ .T "Arrived" }}</th><td>{{ .YesNo .Profile.User.Arrived }}</td></tr>
		<tr><th>{{ .T "Active" }}</th><td>{{ .YesNo .Profile.User.Active }}</td></tr>
		<tr><th>{{ .T "T-shirt" }}</th><td>{{ .YesNo .Profile.User.TShirt }}</td></tr>
		<tr><th>{{ .T "Language" }}</th><td>{{ .Profile.User.Locale }}</td></tr>
	</table>

	<h2>{{ .T "Roles" }}</h2>
	<ul>
		{{ range .Profile.Roles }}
			<li>{{ .Name }}</li>
		{{ end }}
	</ul>

	<h2>{{ .T "Shift entries" }}</h2>
	{{ if .Profile.Entries }}
		<table>
			{{ range .Profile.Entries }}
				<tr>
					<td>{{ with .Shift }}<a href="shift/{{ .ID }}">{{ $.FormatTime .Begin }}</a>{{ end }}</td>
					<td>{{ with .Room }}{{ .Name }}{{ end }}</td>
					<td>{{ ($.TaskText .Task).Name }}</td>
					<td>{{ if .Freeloaded }}{{ $.T "freeloaded" }}{{ end }}</td>
				</tr>
			{{ end }}
		</table>
		{{ with .Profile.Freeloaded }}<p>{{ $.T "freeloaded" }}: {{ . }}</p>{{ end }}
	{{ else }}
		<p>{{ .T "no shifts" }}</p>
	{{ end }}

	<h2>{{ .T "Tasks" }}</h2>
	<ul>
		{{ range .Profile.UserTasks }}
			<li>{{ ($.TaskText ($.Task .TaskID)).Name }}{{ if .Approved }} ({{ $.T "approved" }}){{ end }}</li>
		{{ end }}
	</ul>`)

type userData struct {
	*route
	Profile *core.Profile
	tasks   map[int]*core.Task
}

func (data *userData) YesNo(b bool) string {
	if b {
		return data.T("yes")
	}
	return data.T("no")
}

func (data *userData) Task(id int) *core.Task {
	if t, ok := data.tasks[id]; ok {
		return t
	}
	return &core.Task{ID: id}
}

func (data *userData) TaskText(t *core.Task) *core.TaskText {
	return t.Text(data.Language())
}

func user(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {

	profile, err := ctx.db.GetProfile(params.ByName("username"))
	if err != nil {
		return err
	}

	tasks, err := ctx.db.GetAllTasks()
	if err != nil {
		return err
	}

	var data = &userData{
		route:   ctx,
		Profile: profile,
		tasks:   make(map[int]*core.Task, len(tasks)),
	}
	for _, t := range tasks {
		data.tasks[t.ID] = t
	}

	return render(w, userTmpl, data)
}
