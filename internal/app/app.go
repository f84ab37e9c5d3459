package app

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-sprout/sprout"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jmoiron/nbtedit/internal/app/mcformat"
	"github.com/jmoiron/nbtedit/internal/config"
	"github.com/jmoiron/nbtedit/internal/nbtfile"
	"github.com/jmoiron/nbtedit/nbt"
	"github.com/jmoiron/nbtedit/snbt"
)

type App struct {
	Root      string
	Verbose   int
	Pretty    bool
	MaxUpload int64

	exts    []string
	tpl     *template.Template
	printer *message.Printer

	mu  sync.RWMutex
	lib *Library
}

//go:embed templates/*.gohtml static/*
var templatesFS embed.FS

// New builds the viewer for cfg. A root that cannot be scanned still
// yields a working app with an empty library.
func New(cfg *config.Config, verbose int) (*App, error) {
	a := &App{
		Root:      cfg.Root,
		Verbose:   verbose,
		Pretty:    cfg.IsPretty(),
		MaxUpload: cfg.MaxUpload,
		exts:      cfg.Extensions,
		printer:   message.NewPrinter(language.English),
	}
	a.reload()

	sub, _ := fs.Sub(templatesFS, "templates")
	sh := sprout.New()
	funcs := sh.Build()
	funcs["eq"] = func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) }
	funcs["mc"] = func(s string) template.HTML { return mcformat.Format(s) }
	funcs["num"] = func(n any) string { return a.printer.Sprintf("%d", n) }
	funcs["size"] = a.formatSize
	funcs["kind"] = func(k nbt.Kind) string { return strings.ToLower(k.String()) }
	tpl, err := template.New("base").Funcs(funcs).ParseFS(sub, "*.gohtml")
	if err != nil {
		return nil, err
	}
	a.tpl = tpl
	return a, nil
}

// reload rescans the library from disk.
func (a *App) reload() {
	lib, err := NewLibrary(a.Root, a.exts)
	if err != nil {
		slog.Error("scanning library", "root", a.Root, "error", err)
		lib = &Library{root: a.Root, fileMap: map[string]*File{}}
	}
	a.mu.Lock()
	a.lib = lib
	a.mu.Unlock()
}

// Library returns the currently loaded library.
func (a *App) Library() *Library {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lib
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if a.Verbose > 0 {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	mime.AddExtensionType(".css", "text/css")
	staticFS, _ := fs.Sub(templatesFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", a.index)
	r.Get("/file/*", a.fileDetail)
	r.Get("/raw/*", a.fileRaw)
	r.Get("/query/*", a.query)
	r.Post("/convert", a.convert)
	r.Post("/reload", a.reloadHandler)
	r.Get("/errors", a.errors)

	return r
}

func (a *App) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.tpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// formatSize renders a byte count with English digit grouping.
func (a *App) formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return a.printer.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return a.printer.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// baseData returns common template data to keep the sidebar consistent.
func (a *App) baseData(r *http.Request, title string) map[string]any {
	// Dark mode detection precedence:
	// 1) Explicit query param ?dark=true forces dark for this render
	// 2) Fallback to cookie set by client toggle
	themeDark := false
	if v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("dark"))); v != "" {
		if v == "1" || v == "true" || v == "t" || v == "yes" || v == "on" {
			themeDark = true
		}
	} else if c, err := r.Cookie("theme"); err == nil && c != nil && c.Value == "dark" {
		themeDark = true
	}
	lib := a.Library()
	return map[string]any{
		"Groups":      lib.Groups,
		"Root":        a.Root,
		"Title":       title,
		"Parsed":      len(lib.Files),
		"Failed":      len(lib.Failures),
		"HasFailures": len(lib.Failures) > 0,
		"ThemeDark":   themeDark,
	}
}

func isAjax(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// index handles GET "/".
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	data := a.baseData(r, "nbtedit")
	data["Files"] = a.Library().Files
	a.render(w, "index.gohtml", data)
}

// lookup resolves the wildcard file name of r.
func (a *App) lookup(w http.ResponseWriter, r *http.Request) (*File, bool) {
	name := path.Clean("/" + chi.URLParam(r, "*"))[1:]
	f, ok := a.Library().File(name)
	if !ok {
		http.NotFound(w, r)
	}
	return f, ok
}

// fileDetail handles GET "/file/*", rendering the document as a tree.
// With ?q= the tree is pruned to matching tags and their parents.
func (a *App) fileDetail(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookup(w, r)
	if !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	caseSensitive := r.URL.Query().Has("case")

	tree := buildTree(f.Doc.Root.Name, "", f.Doc.Root)
	matches := 0
	if q != "" {
		tree.filter(searchTerms(q, caseSensitive), caseSensitive)
		matches = tree.countMatches()
	}

	data := a.baseData(r, f.Name)
	data["File"] = f
	data["Tree"] = tree
	data["SelectedFile"] = f.Name
	data["Form"] = map[string]any{"q": q, "case": caseSensitive}
	data["Matches"] = matches
	a.render(w, "file.gohtml", data)
}

// fileRaw handles GET "/raw/*". The rendering defaults to the configured
// style; ?pretty=0 or ?pretty=1 overrides it and ?plain returns text/plain.
func (a *App) fileRaw(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookup(w, r)
	if !ok {
		return
	}
	pretty := a.Pretty
	if v := r.URL.Query().Get("pretty"); v != "" {
		pretty, _ = strconv.ParseBool(v)
	}
	// SNBT cannot carry the root name
	root := &nbt.Root{Compound: f.Doc.Root.Compound}
	var (
		raw string
		err error
	)
	if pretty {
		raw, err = snbt.MarshalIndent(root)
	} else {
		raw, err = snbt.Marshal(root)
	}
	if err != nil {
		http.Error(w, "encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if r.URL.Query().Has("plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, raw+"\n")
		return
	}
	data := a.baseData(r, "Raw: "+f.Name)
	data["File"] = f
	data["SelectedFile"] = f.Name
	data["Pretty"] = pretty
	data["Raw"] = raw
	a.render(w, "raw.gohtml", data)
}

// query handles GET "/query/*?path=a/b/0". Binary files are read with a
// stream parser that skips everything off the path.
func (a *App) query(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookup(w, r)
	if !ok {
		return
	}
	p := r.URL.Query().Get("path")
	t, found, err := queryFile(f, nbt.SplitPath(p))
	if err != nil {
		writeError(w, true, "query: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		writeError(w, true, "no tag at "+strconv.Quote(p), http.StatusNotFound)
		return
	}
	value, err := snbt.Marshal(t)
	if err != nil {
		writeError(w, true, "encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"path":  p,
		"kind":  t.Kind().String(),
		"value": value,
	})
}

// queryFile locates segs in f. Binary files are streamed from disk; SNBT
// documents have no binary form there and are walked in memory.
func queryFile(f *File, segs []string) (nbt.Tag, bool, error) {
	if f.Doc.Encoding == nbtfile.SNBT {
		return f.Doc.Lookup(segs)
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, false, err
	}
	defer fh.Close()
	return nbtfile.Lookup(fh, f.Doc.Encoding.Format(), false, segs)
}

// convert handles POST "/convert". The request body is any supported
// document; ?to= picks the output encoding and ?compress= its compression,
// which default to the input's.
func (a *App) convert(w http.ResponseWriter, r *http.Request) {
	ajax := isAjax(r)
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.MaxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, ajax, "upload exceeds "+a.formatSize(tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, ajax, "read: "+err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := nbtfile.Read(body)
	if err != nil {
		writeError(w, ajax, "decode: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	in := doc.Encoding
	if v := r.URL.Query().Get("to"); v != "" {
		if doc.Encoding, err = nbtfile.ParseEncoding(v); err != nil {
			writeError(w, ajax, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if v := r.URL.Query().Get("compress"); v != "" {
		if doc.Compression, err = nbtfile.ParseCompression(v); err != nil {
			writeError(w, ajax, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if doc.Encoding != nbtfile.Bedrock {
		doc.Header = false
	}
	out, err := doc.Bytes()
	if err != nil {
		writeError(w, ajax, "encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Debug("converted document", "from", in, "to", doc.Encoding, "compression", doc.Compression, "in", len(body), "out", len(out))

	ctype := "application/octet-stream"
	if doc.Encoding == nbtfile.SNBT && doc.Compression == nbtfile.None {
		ctype = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}

// reloadHandler handles POST "/reload" and rescans the root.
func (a *App) reloadHandler(w http.ResponseWriter, r *http.Request) {
	a.reload()
	if isAjax(r) {
		lib := a.Library()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "files": len(lib.Files), "failures": len(lib.Failures)})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// errors handles GET "/errors".
func (a *App) errors(w http.ResponseWriter, r *http.Request) {
	data := a.baseData(r, "Errors")
	data["Failures"] = a.Library().Failures
	a.render(w, "errors.gohtml", data)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, isAjax bool, msg string, code int) {
	if isAjax {
		writeJSON(w, code, map[string]any{"ok": false, "error": msg})
		return
	}
	http.Error(w, msg, code)
}
