package util

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPages(t *testing.T) {
	assert.Equal(t, []int{1}, Pages(1, 1))
	assert.Equal(t, []int{1, 2, 3}, Pages(2, 3))
	assert.Equal(t, []int{1, 2, 3, 5, 9, 17, 20}, Pages(1, 20))
	assert.Equal(t, []int{1, 2, 6, 8, 9, 10, 11, 12, 14, 18, 20}, Pages(10, 20))
}

func TestPageLinks(t *testing.T) {
	assert.Empty(t, PageLinks(0, 5, nil))

	links := PageLinks(2, 3, func(page int) string { return fmt.Sprintf("users?page=%d", page) })
	assert.Len(t, links, 5)
	assert.Contains(t, string(links[0]), `href="users?page=1">&laquo;`)
	assert.Contains(t, string(links[2]), `active`)
	assert.Contains(t, string(links[4]), `href="users?page=3">&raquo;`)
}

func TestTrunc(t *testing.T) {
	assert.Equal(t, "Engel", Trunc("  Engel  ", 5))
	assert.Equal(t, "Schicht…", Trunc("Schichtplan", 7))
	assert.Equal(t, "Übung…", Trunc("Übungen", 5))
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "<p>Pour <em>drinks</em></p>\n", string(Markdown("Pour *drinks*")))
	assert.NotContains(t, string(Markdown("<script>alert(1)</script>")), "<script>")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Feed the angels. cook clean up", Excerpt("Feed the angels.\n\n* cook\n* clean up\n", 100))
	assert.Equal(t, "Feed…", Excerpt("**Feed** the angels.", 4))
	assert.Equal(t, "", Excerpt("", 10))
}

func TestStripPrefix(t *testing.T) {
	handler := StripPrefix("/angels/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logout" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		w.Write([]byte(r.URL.Path))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/angels/shifts", nil))
	assert.Equal(t, "/shifts", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/angels/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/angels/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	StripPrefix("/", handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/angels/shifts", nil))
	assert.Equal(t, "/shifts", rec.Body.String())
}
