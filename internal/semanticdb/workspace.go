package semanticdb

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/lsif-flow/internal/index"
	"github.com/sourcegraph/lsif-flow/internal/log"
)

// metaInfDir is the directory under which build tools write SemanticDB files.
var metaInfDir = filepath.Join("META-INF", "semanticdb")

// Workspace is a set of SemanticDB documents grouped into projects.
type Workspace struct {
	root     string
	projects []*Project

	// Type correlation
	globals map[string]*symbolEntry // Keys: symbol
}

var (
	_ index.Workspace = &Workspace{}
	_ index.Analysis  = &Workspace{}
)

type Project struct {
	name      string
	path      string
	language  string
	documents []*Document
}

func (p *Project) Name() string     { return p.name }
func (p *Project) Path() string     { return p.path }
func (p *Project) Language() string { return p.language }

func (p *Project) Documents() []index.Document {
	documents := make([]index.Document, 0, len(p.documents))
	for _, d := range p.documents {
		documents = append(documents, d)
	}
	return documents
}

type Document struct {
	path     string
	document *TextDocument
	lines    []string
	locals   map[string]*symbolEntry // Keys: local symbol
}

func (d *Document) Path() string { return d.path }

// symbolEntry is everything known about one symbol across the workspace.
type symbolEntry struct {
	key         string
	symbol      string
	info        *SymbolInformation
	language    Language
	definitions []index.Location
}

// Load reads every *.semanticdb file below root. Documents are grouped into
// one project per directory holding a META-INF/semanticdb tree; document
// paths are resolved against root.
func Load(root string) (*Workspace, error) {
	log.Infoln("Loading semanticdb data...")

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "get abspath of project root")
	}

	w := &Workspace{
		root:    root,
		globals: map[string]*symbolEntry{},
	}
	projects := map[string]*Project{}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".semanticdb") {
			if err := w.loadDatabase(path, projects); err != nil {
				return errors.Wrapf(err, "load database %s", path)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load databases")
	}

	for _, project := range projects {
		sort.Slice(project.documents, func(i, j int) bool {
			return project.documents[i].path < project.documents[j].path
		})
		w.projects = append(w.projects, project)
	}
	sort.Slice(w.projects, func(i, j int) bool {
		return w.projects[i].path < w.projects[j].path
	})

	w.correlate()
	return w, nil
}

func (w *Workspace) loadDatabase(path string, projects map[string]*Project) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	textDocuments, err := Unmarshal(contents)
	if err != nil {
		return err
	}

	projectPath := projectPathOf(w.root, path)
	project, ok := projects[projectPath]
	if !ok {
		project = &Project{name: filepath.Base(projectPath), path: projectPath}
		projects[projectPath] = project
	}

	for _, document := range textDocuments.Documents {
		seen := map[string]struct{}{}
		for _, symbol := range document.Symbols {
			if _, ok := seen[symbol.Symbol]; ok {
				return errors.Errorf("duplicate symbol: %s", symbol.Symbol)
			}
			seen[symbol.Symbol] = struct{}{}
		}

		if project.language == "" {
			project.language = document.Language.String()
		}

		project.documents = append(project.documents, &Document{
			path:     filepath.Join(w.root, filepath.FromSlash(document.URI)),
			document: document,
			lines:    strings.Split(document.Text, "\n"),
			locals:   map[string]*symbolEntry{},
		})
	}

	return nil
}

// projectPathOf returns the directory above the META-INF/semanticdb tree
// containing path, or root when there is none.
func projectPathOf(root, path string) string {
	dir := filepath.Dir(path)
	if i := strings.LastIndex(dir, string(filepath.Separator)+metaInfDir); i >= 0 {
		return dir[:i]
	}

	return root
}

// correlate builds a symbol entry for every symbol mentioned anywhere, and
// records the definition locations of each. Entries are never created after
// this point, so lookups are safe from concurrent hover workers.
func (w *Workspace) correlate() {
	for _, project := range w.projects {
		for _, d := range project.documents {
			for _, info := range d.document.Symbols {
				entry := w.entry(d, info.Symbol)
				if entry.info == nil {
					entry.info = info
				}
			}

			for _, occurrence := range d.document.Occurrences {
				if occurrence.Symbol == "" {
					continue
				}

				entry := w.entry(d, occurrence.Symbol)
				if occurrence.Role == RoleDefinition && occurrence.Range != nil {
					entry.definitions = append(entry.definitions, d.location(occurrence))
				}
			}
		}
	}
}

func (w *Workspace) entry(d *Document, symbol string) *symbolEntry {
	m, key := w.globals, symbol
	if isLocal(symbol) {
		m, key = d.locals, d.document.URI+"#"+symbol
	}

	entry, ok := m[symbol]
	if !ok {
		entry = &symbolEntry{key: key, symbol: symbol, language: d.document.Language}
		m[symbol] = entry
	}

	return entry
}

func (w *Workspace) Root() string { return w.root }

func (w *Workspace) Projects() []index.Project {
	projects := make([]index.Project, 0, len(w.projects))
	for _, p := range w.projects {
		projects = append(projects, p)
	}
	return projects
}

// Candidates yields every occurrence of the document in order. The offset of
// a candidate is the index of its occurrence.
func (w *Workspace) Candidates(ctx context.Context, doc index.Document) (iter.Seq[index.Candidate], error) {
	d, err := asDocument(doc)
	if err != nil {
		return nil, err
	}

	return func(yield func(index.Candidate) bool) {
		for i, occurrence := range d.document.Occurrences {
			candidate := index.Candidate{
				Offset:   i,
				Text:     d.text(occurrence),
				Location: d.location(occurrence),
			}
			if !yield(candidate) {
				return
			}
		}
	}, nil
}

func asDocument(doc index.Document) (*Document, error) {
	d, ok := doc.(*Document)
	if !ok {
		return nil, errors.Errorf("unexpected document type %T", doc)
	}
	return d, nil
}

func (d *Document) location(occurrence *SymbolOccurrence) index.Location {
	if occurrence.Range == nil {
		return index.Location{URI: d.document.URI}
	}

	start, end := convertRange(occurrence.Range)
	return index.Location{
		URI:      d.document.URI,
		Start:    start,
		End:      end,
		InSource: true,
	}
}

// text returns the source text of a single-line occurrence, or its symbol
// when the text is not available.
func (d *Document) text(occurrence *SymbolOccurrence) string {
	r := occurrence.Range
	if r == nil || r.StartLine != r.EndLine || int(r.StartLine) >= len(d.lines) {
		return occurrence.Symbol
	}

	if text, ok := sliceUTF16(d.lines[r.StartLine], int(r.StartCharacter), int(r.EndCharacter)); ok {
		return text
	}

	return occurrence.Symbol
}
