package core

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/engelsystem/engelsystem/auth"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Notification struct {
	Message string
	Style   string
}

func init() {
	gob.Register([]Notification{}) // required for storing Notifications in a session
}

// A Request is created by CoreDB.NewRequest. It must be used within SessionManager.LoadAndSave.
type Request struct {
	db   *CoreDB // unexported, so it can't be accessed in templates
	User *User   // nil if anonymous

	// http
	writer  http.ResponseWriter
	request *http.Request

	// robustness
	statusWritten bool

	// locale
	language language.Tag
	printer  *message.Printer
}

// NewRequest creates a Request with the given http.ResponseWriter and http.Request.
// It authenticates the user, see CoreDB.Authenticate.
func (c *CoreDB) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		db:      c,
		writer:  w,
		request: httpreq,
	}

	req.User = c.Authenticate(httpreq)

	var locale string
	if req.User != nil {
		locale = req.User.Locale
	}
	req.language = MatchLanguage(locale, httpreq.Header.Get("Accept-Language"))
	req.printer = newPrinter(req.language)

	return req
}

// Authenticate returns the user of the request, or nil.
//
// A "key" query parameter takes precedence over HTTP basic auth, which takes precedence over the session cookie.
// If a key or basic auth credentials are given but invalid, the request is anonymous, even if a cookie is present.
func (c *CoreDB) Authenticate(r *http.Request) *User {

	if key := r.URL.Query().Get("key"); key != "" {
		u, err := c.GetUserByKey(key)
		if err != nil {
			c.logAuthError("session key", err)
			return nil
		}
		return u
	}

	if username, password, ok := r.BasicAuth(); ok {
		u, err := c.LoginUser(username, password)
		if err != nil {
			c.logAuthError("basic auth", err, zap.String("username", username))
			return nil
		}
		return u
	}

	if uid := c.SessionManager.GetInt(r.Context(), "uid"); uid != 0 {
		u, err := c.GetUser(uid)
		if err != nil {
			c.logAuthError("session cookie", err, zap.Int("uid", uid))
			return nil
		}
		return u
	}

	return nil
}

func (c *CoreDB) logAuthError(method string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("method", method), zap.Error(err))
	switch {
	case errors.Is(err, auth.ErrAuth), errors.Is(err, auth.ErrMalformedKey), errors.Is(err, ErrNotFound):
		c.Log.Debug("authentication rejected", fields...)
	default:
		c.Log.Error("authentication failed", fields...)
	}
}

func (req *Request) Context() context.Context {
	return req.request.Context()
}

// Danger adds a "danger" notification to the session.
func (req *Request) Danger(err error) {
	req.addNotification(req.T(err.Error()), "danger")
}

// Success adds a "success" notification to the session. The format is translated.
func (req *Request) Success(format string, args ...interface{}) {
	req.addNotification(req.T(format, args...), "success")
}

// style should be a bootstrap alert style without the leading "alert-"
func (req *Request) addNotification(msg, style string) {
	notifications, _ := req.db.SessionManager.Get(req.Context(), "notifications").([]Notification)
	notifications = append(notifications, Notification{msg, style})
	req.db.SessionManager.Put(req.Context(), "notifications", notifications)
}

// RenderNotifications removes all notifications from the session
// and renders them into an HTML string.
// If the HTTP status had already been written, it does nothing.
func (req *Request) RenderNotifications() template.HTML {
	var r string
	if !req.statusWritten {
		notifications, _ := req.db.SessionManager.Pop(req.Context(), "notifications").([]Notification)
		for _, n := range notifications {
			r += `<div class="alert alert-` + n.Style + ` mt-3" role="alert">` + template.HTMLEscapeString(n.Message) + `</div>`
		}
	}
	return template.HTML(r)
}

// Cleanup destroys the session (which means re-setting the cookie with zero lifetime) if the session has been modified and is empty now.
func (req *Request) Cleanup() {
	sessMan := req.db.SessionManager
	if sessMan.Status(req.Context()) == scs.Modified && len(sessMan.Keys(req.Context())) == 0 {
		_ = sessMan.Destroy(req.Context())
	}
}

// SeeOther sets the HTTP header to redirect to an URL.
func (req *Request) SeeOther(format string, args ...interface{}) {
	if req.statusWritten {
		return
	}
	var url = fmt.Sprintf(format, args...)
	http.Redirect(req.writer, req.request, url, http.StatusSeeOther)
	req.statusWritten = true
}

// Login tries to log in a user. On success, the user id is stored in the session.
func (req *Request) Login(username string, enteredPass string) error {
	if req.LoggedIn() {
		return nil
	}
	u, err := req.db.LoginUser(username, enteredPass)
	if err != nil {
		return err // is auth.ErrAuth if username or enteredPass is wrong
	}
	if err := req.db.SessionManager.RenewToken(req.Context()); err != nil {
		return err
	}
	req.User = u
	req.language = MatchLanguage(u.Locale, req.request.Header.Get("Accept-Language"))
	req.printer = newPrinter(req.language)
	req.Success("Welcome %s!", u.Username)
	req.db.SessionManager.Put(req.Context(), "uid", u.ID)
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.User != nil
}

// Logout removes the user id from the session and calls req.Cleanup().
func (req *Request) Logout() {
	req.db.SessionManager.Remove(req.Context(), "uid")
	req.User = nil
	req.Cleanup()
}

// HasPermission calls CoreDB.HasPermission for the current user.
func (req *Request) HasPermission(name string) (bool, error) {
	return req.db.HasPermission(req.User, name)
}

// Can is like HasPermission, but logs errors and returns false then. It is meant for templates.
func (req *Request) Can(name string) bool {
	ok, err := req.HasPermission(name)
	if err != nil {
		req.db.Log.Error("checking permission", zap.String("permission", name), zap.Error(err))
		return false
	}
	return ok
}

// Language returns the base language of the request, like "en" or "de".
func (req *Request) Language() string {
	base, _ := req.language.Base()
	return base.String()
}

// T translates a message.
func (req *Request) T(key string, args ...interface{}) string {
	return req.printer.Sprintf(key, args...)
}

func (req *Request) FormatTime(t time.Time) string {
	return formatTime(req.language, t)
}
