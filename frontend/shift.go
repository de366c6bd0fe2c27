package frontend

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/engelsystem/engelsystem/core"
)

var shiftTmpl = tmpl(`<h1>{{ with .Shift.Title }}{{ . }}{{ else }}{{ .T "Shifts" }} #{{ .Shift.ID }}{{ end }}</h1>

	<p>
		{{ .T "Room" }}: {{ .Room.Name }}<br>
		{{ .FormatTime .Shift.Begin }} &ndash; {{ .FormatTime .Shift.End }}
	</p>
	{{ with .Shift.Comment }}<p>{{ . }}</p>{{ end }}
	{{ with .Shift.URL }}<p><a href="{{ . }}">{{ . }}</a></p>{{ end }}

	<h2>{{ .T "Angels needed" }}</h2>
	{{ template "allocations" .Allocations }}

	{{ if .Defaults }}
		<h2>{{ .T "Default tasks of this room" }}</h2>
		{{ template "allocations" .Defaults }}
	{{ end }}`)

func init() {
	template.Must(shiftTmpl.Parse(`{{ define "allocations" }}
		<table>
			{{ range . }}
				<tr>
					<td title="{{ Excerpt .Text.Description }}">
						{{ .Text.Name }}
						{{ if .Task.Restricted }}<span class="text-muted">({{ .T "restricted" }})</span>{{ end }}
					</td>
					<td>{{ .Taken }} / {{ .Amount }} {{ .T "taken" }}, {{ .Free }} {{ .T "free" }}</td>
					<td>{{ range $i, $u := .Users }}{{ if $i }}, {{ end }}<a href="user/{{ $u.Username }}">{{ $u.Username }}</a>{{ end }}</td>
				</tr>
				{{ with .Text.Description }}
					<tr>
						<td colspan="3">{{ Markdown . }}</td>
					</tr>
				{{ end }}
			{{ end }}
		</table>
	{{ end }}`))
}

// allocationView adds the task text in the request language and the assigned users.
type allocationView struct {
	*core.Allocation
	*core.Request // for translations in the "allocations" template
	Text          *core.TaskText
	Users         []*core.User // nil if the viewer may not see them
}

type shiftData struct {
	*route
	Shift       *core.Shift
	Room        *core.Room
	Allocations []allocationView
	Defaults    []allocationView
}

func parseID(params httprouter.Params) (int, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil || id <= 0 {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// allocationViews looks up the assigned users if showUsers is true.
func (ctx *route) allocationViews(allocs []*core.Allocation, showUsers bool) ([]allocationView, error) {
	var views = make([]allocationView, 0, len(allocs))
	for _, a := range allocs {
		var view = allocationView{
			Allocation: a,
			Request:    ctx.Request,
			Text:       a.Task.Text(ctx.Language()),
		}
		if showUsers {
			for _, e := range a.Entries {
				u, err := ctx.db.GetUser(e.UserID)
				if err != nil {
					return nil, err
				}
				view.Users = append(view.Users, u)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func shift(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {

	id, err := parseID(params)
	if err != nil {
		return err
	}

	detail, err := ctx.db.GetShiftDetail(id)
	if err != nil {
		return err
	}

	var showUsers = ctx.Can("show_user")

	var data = &shiftData{
		route: ctx,
		Shift: detail.Shift,
		Room:  detail.Room,
	}
	if data.Allocations, err = ctx.allocationViews(detail.Allocations, showUsers); err != nil {
		return err
	}
	if data.Defaults, err = ctx.allocationViews(detail.Defaults, false); err != nil {
		return err
	}

	return render(w, shiftTmpl, data)
}
