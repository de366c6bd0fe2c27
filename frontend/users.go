package frontend

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/engelsystem/engelsystem/core"
	"github.com/engelsystem/engelsystem/util"
)

const usersPerPage = 50

var usersTmpl = tmpl(`<h1>{{ .T "Users" }}</h1>

	<table>
		<tr>
			<th>{{ .T "Username" }}</th>
			<th>{{ .T "Real name" }}</th>
			<th>{{ .T "Arrived" }}</th>
		</tr>
		{{ range .Users }}
			<tr>
				<td><a href="user/{{ .Username }}">{{ .Username }}</a></td>
				<td>{{ .RealName }}</td>
				<td>{{ if .Arrived }}&#10003;{{ end }}</td>
			</tr>
		{{ end }}
	</table>

	<ul class="pagination">
		{{ range .PageLinks }}
			{{ . }}
		{{ end }}
	</ul>`)

type usersData struct {
	*route
	Users     []*core.User
	PageLinks []template.HTML
}

func users(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {

	count, err := ctx.db.CountUsers()
	if err != nil {
		return err
	}

	var numPages = (count + usersPerPage - 1) / usersPerPage
	if numPages < 1 {
		numPages = 1
	}

	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	if page < 1 || page > numPages {
		page = 1
	}

	all, err := ctx.db.GetAllUsers(usersPerPage, (page-1)*usersPerPage)
	if err != nil {
		return err
	}

	return render(w, usersTmpl, &usersData{
		route: ctx,
		Users: all,
		PageLinks: util.PageLinks(page, numPages, func(page int) string {
			return fmt.Sprintf("users?page=%d", page)
		}),
	})
}
