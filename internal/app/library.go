package app

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/jmoiron/nbtedit/internal/nbtfile"
)

// File is one NBT document found under the library root.
type File struct {
	// Name is the slash separated path relative to the root.
	Name string
	// Path is the filesystem path.
	Path string
	Size int64
	Doc  *nbtfile.Document
}

// Dir returns the directory part of Name, "" for top-level files.
func (f *File) Dir() string {
	if d := path.Dir(f.Name); d != "." {
		return d
	}
	return ""
}

// Base returns the last element of Name.
func (f *File) Base() string { return path.Base(f.Name) }

// Group collects the files of one directory for the sidebar.
type Group struct {
	Dir   string
	Files []*File
}

// Failure records a file that matched but could not be decoded.
type Failure struct {
	Name string
	Path string
	Err  string
}

// Library indexes the NBT documents under a root directory.
type Library struct {
	root string
	exts []string

	Files    []*File
	Groups   []*Group
	Failures []Failure

	// fileMap maps a File Name to the file
	fileMap map[string]*File
}

// NewLibrary walks root and loads every file whose suffix is in exts.
// Files that fail to decode are recorded as failures rather than
// aborting the scan.
func NewLibrary(root string, exts []string) (*Library, error) {
	lib := &Library{
		root:    root,
		exts:    exts,
		fileMap: make(map[string]*File),
	}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !lib.matches(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		lib.load(filepath.ToSlash(rel), p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(lib.Files, func(i, j int) bool { return lib.Files[i].Name < lib.Files[j].Name })
	groups := make(map[string]*Group)
	for _, f := range lib.Files {
		g, ok := groups[f.Dir()]
		if !ok {
			g = &Group{Dir: f.Dir()}
			groups[f.Dir()] = g
			lib.Groups = append(lib.Groups, g)
		}
		g.Files = append(g.Files, f)
	}
	slog.Debug("scanned library", "root", root, "files", len(lib.Files), "failures", len(lib.Failures))
	return lib, nil
}

func (l *Library) matches(name string) bool {
	return slices.ContainsFunc(l.exts, func(ext string) bool {
		return strings.HasSuffix(strings.ToLower(name), ext)
	})
}

func (l *Library) load(name, p string) {
	info, err := os.Stat(p)
	if err != nil {
		l.Failures = append(l.Failures, Failure{Name: name, Path: p, Err: err.Error()})
		return
	}
	doc, err := nbtfile.Load(p)
	if err != nil {
		slog.Warn("skipping unreadable file", "path", p, "error", err)
		l.Failures = append(l.Failures, Failure{Name: name, Path: p, Err: err.Error()})
		return
	}
	f := &File{Name: name, Path: p, Size: info.Size(), Doc: doc}
	l.Files = append(l.Files, f)
	l.fileMap[name] = f
}

// File returns the file with the given relative name.
func (l *Library) File(name string) (*File, bool) {
	f, ok := l.fileMap[name]
	return f, ok
}
