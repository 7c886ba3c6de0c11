// Package fakeoffice is an in-memory stand-in for the back-office admin
// form endpoints, for tests of the API client.
package fakeoffice

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "LCSESSID"

// Record is a stored entity submission.
type Record struct {
	ID     string
	Fields url.Values
	Files  []string
}

type app struct {
	edit, list, idParam, nameField string
}

var apps = map[string]app{
	"geo_zones": {edit: "edit_geo_zone", list: "geo_zones", idParam: "geo_zone_id", nameField: "name"},
	"catalog":   {edit: "edit_product", list: "catalog", idParam: "product_id", nameField: "name[en]"},
	"users":     {edit: "edit_user", list: "users", idParam: "user_id", nameField: "username"},
}

var (
	loginTmpl = pongo2.Must(pongo2.FromString(`<html><body>
{% if error %}<div class="alert alert-danger">{{ error }}</div>{% endif %}
<form method="post"><input name="username"><input name="password" type="password"><button name="login">Login</button></form>
</body></html>`))

	listTmpl = pongo2.Must(pongo2.FromString(`<html><body><div id="content">
{% if notice %}<div class="alert alert-success">{{ notice }}</div>{% endif %}
<form><table class="table"><tbody>
{% for r in rows %}<tr><td><input type="checkbox" value="{{ r.ID }}"></td><td>{{ r.ID }}</td><td><a href="/admin/?app={{ app }}&amp;doc={{ edit }}&amp;{{ param }}={{ r.ID }}">{{ r.Name }}</a></td></tr>
{% endfor %}</tbody></table></form></div></body></html>`))

	pageTmpl = pongo2.Must(pongo2.FromString(`<html><body><div id="content">
{% if error %}<div class="alert alert-danger">{{ error }}</div>{% endif %}
<h1 class="card-title">{{ title }}</h1></div></body></html>`))
)

// Server is a running fake back office.
type Server struct {
	*httptest.Server

	Username string
	Password string
	// RedirectToEdit makes saves land on the edit page of the new entity
	// instead of the list.
	RedirectToEdit bool

	mu       sync.Mutex
	nextID   int
	records  map[string]map[string]*Record
	sessions map[string]bool
	logins   int
	requests int
	notice   string
	failNext map[string]string
}

// TB is the part of testing.TB the server needs.
type TB interface {
	Cleanup(func())
}

// New starts a fake back office accepting admin/secret and stops it
// when t finishes.
func New(t TB) *Server {
	s := &Server{
		Username: "admin",
		Password: "secret",
		records:  map[string]map[string]*Record{},
		sessions: map[string]bool{},
		failNext: map[string]string{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), func(c *gin.Context) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		c.Next()
	})
	r.GET("/admin/login.php", func(c *gin.Context) { render(c, loginTmpl, pongo2.Context{}) })
	r.POST("/admin/login.php", s.login)
	r.Any("/admin/", s.requireSession, s.admin)
	return r
}

func render(c *gin.Context, tmpl *pongo2.Template, ctx pongo2.Context) {
	out, err := tmpl.Execute(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func (s *Server) login(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logins++

	if c.PostForm("username") != s.Username || c.PostForm("password") != s.Password {
		render(c, loginTmpl, pongo2.Context{
			"error": "Wrong combination of username and password or the account does not exist.",
		})
		return
	}
	sid := uuid.NewString()
	s.sessions[sid] = true
	c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, "/admin/")
}

func (s *Server) requireSession(c *gin.Context) {
	sid, err := c.Cookie(sessionCookie)
	s.mu.Lock()
	ok := err == nil && s.sessions[sid]
	s.mu.Unlock()
	if !ok {
		c.Redirect(http.StatusFound, "/admin/login.php?redirect_url="+url.QueryEscape(c.Request.URL.String()))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) admin(c *gin.Context) {
	name, doc := c.Query("app"), c.Query("doc")
	if name == "" {
		render(c, pageTmpl, pongo2.Context{"title": "Dashboard"})
		return
	}
	a, ok := apps[name]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	switch {
	case doc == a.list && c.Request.Method == http.MethodGet:
		s.list(c, name, a)
	case doc == a.edit && c.Request.Method == http.MethodPost:
		s.edit(c, name, a)
	case doc == a.edit:
		render(c, pageTmpl, pongo2.Context{"title": "Edit"})
	default:
		c.Status(http.StatusNotFound)
	}
}

func (s *Server) list(c *gin.Context, name string, a app) {
	s.mu.Lock()
	notice := s.notice
	s.notice = ""
	type row struct{ ID, Name string }
	var rows []row
	for _, r := range s.sorted(name) {
		rows = append(rows, row{ID: r.ID, Name: r.Fields.Get(a.nameField)})
	}
	s.mu.Unlock()

	render(c, listTmpl, pongo2.Context{
		"notice": notice,
		"rows":   rows,
		"app":    name,
		"edit":   a.edit,
		"param":  a.idParam,
	})
}

func (s *Server) edit(c *gin.Context, name string, a app) {
	var form url.Values
	var files []string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		mf, err := c.MultipartForm()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		form = url.Values(mf.Value)
		for _, fh := range mf.File["new_images[]"] {
			files = append(files, fh.Filename)
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		form = c.Request.PostForm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg, ok := s.failNext[name]; ok {
		delete(s.failNext, name)
		render(c, pageTmpl, pongo2.Context{"title": "Edit", "error": msg})
		return
	}

	listURL := "/admin/?app=" + name + "&doc=" + a.list
	switch {
	case form.Get("delete") != "":
		id := c.Query(a.idParam)
		if _, ok := s.records[name][id]; !ok {
			c.Status(http.StatusNotFound)
			return
		}
		delete(s.records[name], id)
		s.notice = "Changes saved successfully"
		c.Redirect(http.StatusFound, listURL)

	case form.Get("save") != "":
		if form.Get(a.nameField) == "" {
			render(c, pageTmpl, pongo2.Context{"title": "Edit", "error": "You must enter a name"})
			return
		}
		s.nextID++
		id := strconv.Itoa(s.nextID)
		if s.records[name] == nil {
			s.records[name] = map[string]*Record{}
		}
		form.Del("save")
		s.records[name][id] = &Record{ID: id, Fields: form, Files: files}
		s.notice = "Changes saved successfully"
		if s.RedirectToEdit {
			c.Redirect(http.StatusFound, "/admin/?app="+name+"&doc="+a.edit+"&"+a.idParam+"="+id)
			return
		}
		c.Redirect(http.StatusFound, listURL)

	default:
		c.Status(http.StatusBadRequest)
	}
}

func (s *Server) sorted(name string) []*Record {
	out := make([]*Record, 0, len(s.records[name]))
	for _, r := range s.records[name] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a < b
	})
	return out
}

// Records returns the stored entities of app ("geo_zones", "catalog",
// "users") ordered by ID.
func (s *Server) Records(app string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.sorted(app) {
		out = append(out, *r)
	}
	return out
}

// Seed stores a record directly and returns its ID.
func (s *Server) Seed(app string, fields url.Values) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	if s.records[app] == nil {
		s.records[app] = map[string]*Record{}
	}
	s.records[app][id] = &Record{ID: id, Fields: fields}
	return id
}

// FailNext makes the next submission to app answer with an error notice.
func (s *Server) FailNext(app, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[app] = message
}

// Logins returns the number of login attempts.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Requests returns the number of requests served.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
