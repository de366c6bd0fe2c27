package frontend

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/engelsystem/engelsystem/auth"
)

var ErrLogin = errors.New("wrong username or password")

// login sends the basic auth challenge, so browsers show their login dialog.
func login(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {
	challenge(w)
	return nil
}

var signinTmpl = tmpl(`<h1>{{ .T "Login" }}</h1>
	<form method="post" style="max-width: 20rem;">
		<p>
			<label>{{ .T "Username" }}</label><br>
			<input type="text" name="username" value="{{ .Username }}" required autofocus>
		</p>
		<p>
			<label>{{ .T "Password" }}</label><br>
			<input type="password" name="password" required>
		</p>
		<p>
			<button type="submit" name="login">{{ .T "Login" }}</button>
		</p>
	</form>`)

type signinData struct {
	*route
	Username string
}

// signin logs in with a form and a session cookie.
func signin(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {

	if ctx.LoggedIn() {
		ctx.SeeOther("/")
		return nil
	}

	var username string

	if req.Method == http.MethodPost {

		username = req.PostFormValue("username")
		password := req.PostFormValue("password")

		err := ctx.Login(username, password)
		switch {
		case err == nil:
			ctx.SeeOther("/")
			return nil
		case errors.Is(err, auth.ErrAuth):
			ctx.logger().Debug("form login rejected", zap.String("username", username))
			ctx.Danger(ErrLogin)
			// keep POST data for username field
		default:
			return err
		}
	}

	return render(w, signinTmpl, &signinData{
		route:    ctx,
		Username: username,
	})
}
