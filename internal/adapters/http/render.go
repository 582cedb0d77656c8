package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"eventreg/internal/application/listutil"
	"eventreg/internal/domain/event"
	"eventreg/internal/domain/regform"
	"eventreg/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are parsed together with layout.html and partials.html.
var pages = []string{
	"register.html",
	"admin_events.html",
	"admin_settings.html",
	"admin_registrations.html",
}

// views holds one template set per page.
type views struct {
	sets map[string]*template.Template
}

// fieldView pairs a descriptor with its validation message.
type fieldView struct {
	D     regform.Descriptor
	Error string
}

var funcMap = template.FuncMap{
	"fieldView": func(d regform.Descriptor, errs map[string]string) fieldView {
		return fieldView{D: d, Error: errs[d.Name]}
	},
	"recomputeURL": func(target string) string {
		switch target {
		case regform.DateWrapperID:
			return "/register/dates"
		case regform.EventWrapperID:
			return "/register/events"
		}
		return ""
	},
	"categoryLabel": event.CategoryLabel,
	"categories":    func() []string { return event.Categories },
	"add":           func(a, b int) int { return a + b },
	"sub":           func(a, b int) int { return a - b },
	"pageQuery": func(p listutil.PageInfo, eventDate, eventID string, page int) template.URL {
		return template.URL(p.PageQuery(map[string][]string{"event_date": {eventDate}, "event_id": {eventID}}, page))
	},
}

func mustParseViews() *views {
	v := &views{sets: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tpl := template.Must(template.New("layout.html").Funcs(funcMap).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+page))
		v.sets[page] = tpl
	}
	return v
}

// pageData is the root value every full page renders with.
type pageData struct {
	Title     string
	CSRFField template.HTML
	Page      any
}

// render writes a full page inside the layout.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tpl, ok := a.views.sets[page]
	if !ok {
		a.internalError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}
	a.execute(w, r, status, tpl, "layout.html", pageData{Title: title, CSRFField: csrf.TemplateField(r), Page: data})
}

// renderBlock writes a single named block, used for partial re-renders.
func (a *app) renderBlock(w http.ResponseWriter, r *http.Request, page, block string, data any) {
	tpl, ok := a.views.sets[page]
	if !ok {
		a.internalError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}
	a.execute(w, r, http.StatusOK, tpl, block, data)
}

func (a *app) execute(w http.ResponseWriter, r *http.Request, status int, tpl *template.Template, name string, data any) {
	var buf strings.Builder
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		a.internalError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// internalError logs the real error and returns a generic message to the client.
func (a *app) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("internal_error", "path", r.URL.Path, "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// wantsJSON reports whether the client asked for JSON instead of HTML.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
