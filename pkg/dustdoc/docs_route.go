package dustdoc

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gorilla/mux"
)

// DocsConfig holds configuration for the documentation server.
type DocsConfig struct {
	// Title shown in the browser tab and page header.
	Title string
	// PageTemplate is the HTML page wrapping every rendered document. It is
	// executed with html/template and receives .Title, .Heading and .Body.
	PageTemplate string
	// Logger receives request errors. Defaults to a discarding logger.
	Logger *slog.Logger
}

func defaultDocsConfig() DocsConfig {
	return DocsConfig{
		Title:        "Dust Documentation",
		PageTemplate: DefaultPageTemplate,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func prepareDocsConfig(cfg ...DocsConfig) DocsConfig {
	conf := defaultDocsConfig()
	if len(cfg) == 0 {
		return conf
	}
	c := cfg[0]
	if c.Title != "" {
		conf.Title = c.Title
	}
	if c.PageTemplate != "" {
		conf.PageTemplate = c.PageTemplate
	}
	if c.Logger != nil {
		conf.Logger = c.Logger
	}
	return conf
}

// DocsServer serves rendered documentation for every source file below a
// root directory. Files are read on each request.
type DocsServer struct {
	fsys   fs.FS
	conf   DocsConfig
	page   *template.Template
	router *mux.Router
}

// NewDocsServer builds a server for the sources under root. It panics if
// the configured page template does not parse.
func NewDocsServer(root string, cfg ...DocsConfig) *DocsServer {
	conf := prepareDocsConfig(cfg...)
	s := &DocsServer{
		fsys:   os.DirFS(root),
		conf:   conf,
		page:   template.Must(template.New("page").Parse(conf.PageTemplate)),
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/docs/{path:.+}", s.handleHTML).Methods(http.MethodGet)
	s.router.HandleFunc("/raw/{path:.+}", s.handleMarkdown).Methods(http.MethodGet)
	s.router.HandleFunc("/api/{path:.+}", s.handleJSON).Methods(http.MethodGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *DocsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type pageData struct {
	Title   string
	Heading string
	Body    template.HTML
}

func (s *DocsServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	names, err := findSources(s.fsys)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("<ul>\n")
	for _, name := range names {
		href := "/docs/" + escapePath(name)
		sb.WriteString(`<li><a href="` + template.HTMLEscapeString(href) + `">` +
			template.HTMLEscapeString(name) + "</a></li>\n")
	}
	sb.WriteString("</ul>\n")

	s.writePage(w, s.conf.Title, template.HTML(sb.String())) // #nosec G203
}

func (s *DocsServer) handleHTML(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.load(w, r)
	if !ok {
		return
	}
	body := MarkdownToHTML(GenerateMarkdown(m, name))
	s.writePage(w, name, template.HTML(body)) // #nosec G203
}

func (s *DocsServer) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(GenerateMarkdown(m, name)))
}

func (s *DocsServer) handleJSON(w http.ResponseWriter, r *http.Request) {
	_, m, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		s.conf.Logger.Error("encode module", "error", err)
	}
}

// load resolves the {path} variable below the root and extracts the file.
// It writes the error response itself and reports false on failure.
func (s *DocsServer) load(w http.ResponseWriter, r *http.Request) (string, *Module, bool) {
	name := path.Clean("/" + mux.Vars(r)["path"])[1:]
	if name == "" || !IsSourceFile(name) {
		http.NotFound(w, r)
		return "", nil, false
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
		} else {
			s.fail(w, http.StatusInternalServerError, err)
		}
		return "", nil, false
	}
	return path.Base(name), Extract(string(data)), true
}

// escapePath escapes each segment of a slash-separated path for use in a URL.
func escapePath(name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func (s *DocsServer) writePage(w http.ResponseWriter, heading string, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Title: s.conf.Title, Heading: heading, Body: body}
	if err := s.page.Execute(w, data); err != nil {
		s.conf.Logger.Error("render page", "error", err)
	}
}

func (s *DocsServer) fail(w http.ResponseWriter, code int, err error) {
	s.conf.Logger.Error("docs request failed", "status", code, "error", err)
	http.Error(w, http.StatusText(code), code)
}

// DefaultPageTemplate is the page used when DocsConfig.PageTemplate is empty.
const DefaultPageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>body { max-width: 50rem; margin: 2rem auto; font-family: sans-serif; } pre { background: #f4f4f4; padding: .5rem; }</style>
</head>
<body>
    <nav><a href="/">{{.Title}}</a> / {{.Heading}}</nav>
{{.Body}}
</body>
</html>`
