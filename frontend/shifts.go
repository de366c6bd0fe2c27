package frontend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/engelsystem/engelsystem/core"
)

var shiftsTmpl = tmpl(`<h1>{{ .T "Shifts" }}</h1>

	{{ range .Plan }}
		<h2>{{ .Name }}</h2>
		{{ with .Description }}<p class="text-muted">{{ Trunc . 200 }}</p>{{ end }}
		{{ if .Shifts }}
			<table>
				{{ range .Shifts }}
					<tr>
						<td>{{ $.FormatTime .Begin }}</td>
						<td>{{ $.FormatTime .End }}</td>
						<td><a href="shift/{{ .ID }}">{{ with .Title }}{{ . }}{{ else }}#{{ .ID }}{{ end }}</a></td>
					</tr>
				{{ end }}
			</table>
		{{ else }}
			<p>{{ $.T "no shifts" }}</p>
		{{ end }}
	{{ end }}`)

type shiftsData struct {
	*route
	Plan []core.RoomShifts
}

func shifts(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {
	plan, err := ctx.db.ShiftPlan()
	if err != nil {
		return err
	}
	return render(w, shiftsTmpl, &shiftsData{
		route: ctx,
		Plan:  plan,
	})
}
