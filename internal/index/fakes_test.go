package index

import (
	"bytes"
	"context"
	"iter"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sourcegraph/lsif-flow/internal/protocol"
	"github.com/sourcegraph/lsif-flow/internal/verify"
)

type fakeWorkspace struct {
	root     string
	projects []Project
}

func (w *fakeWorkspace) Root() string        { return w.root }
func (w *fakeWorkspace) Projects() []Project { return w.projects }

type fakeProject struct {
	name      string
	path      string
	language  string
	documents []Document
}

func (p *fakeProject) Name() string          { return p.name }
func (p *fakeProject) Path() string          { return p.path }
func (p *fakeProject) Language() string      { return p.language }
func (p *fakeProject) Documents() []Document { return p.documents }

type fakeDocument struct {
	path string
}

func (d *fakeDocument) Path() string { return d.path }

type fakeSymbol struct {
	key       string
	name      string
	kind      SymbolKind
	access    Accessibility
	locations []Location
}

func (s *fakeSymbol) Key() string                  { return s.key }
func (s *fakeSymbol) Name() string                 { return s.name }
func (s *fakeSymbol) Kind() SymbolKind             { return s.kind }
func (s *fakeSymbol) Accessibility() Accessibility { return s.access }
func (s *fakeSymbol) Locations() []Location        { return s.locations }
func (s *fakeSymbol) DisplayString() string        { return s.key }

type position struct {
	path   string
	offset int
}

// fakeAnalysis serves canned candidates, symbols and hovers. It is filled
// before a run and only read during it.
type fakeAnalysis struct {
	candidates    map[string][]Candidate
	symbols       map[position]Symbol
	resolveErrors map[position]error
	hovers        map[position][]string
	hoverErrors   map[position]error

	mu          sync.Mutex
	hoverCalls  int
	maxInFlight int
	inFlight    int
}

func newFakeAnalysis() *fakeAnalysis {
	return &fakeAnalysis{
		candidates:    map[string][]Candidate{},
		symbols:       map[position]Symbol{},
		resolveErrors: map[position]error{},
		hovers:        map[position][]string{},
		hoverErrors:   map[position]error{},
	}
}

// token registers a candidate of a document resolving to symbol, which may
// be nil.
func (a *fakeAnalysis) token(doc Document, text string, location Location, symbol Symbol) int {
	offset := len(a.candidates[doc.Path()])
	a.candidates[doc.Path()] = append(a.candidates[doc.Path()], Candidate{
		Offset:   offset,
		Text:     text,
		Location: location,
	})
	if symbol != nil {
		a.symbols[position{doc.Path(), offset}] = symbol
	}
	return offset
}

func (a *fakeAnalysis) Candidates(_ context.Context, doc Document) (iter.Seq[Candidate], error) {
	return slices.Values(a.candidates[doc.Path()]), nil
}

func (a *fakeAnalysis) Resolve(_ context.Context, doc Document, offset int) (Symbol, error) {
	pos := position{doc.Path(), offset}
	if err, ok := a.resolveErrors[pos]; ok {
		return nil, err
	}
	if symbol, ok := a.symbols[pos]; ok {
		return symbol, nil
	}
	return nil, nil
}

func (a *fakeAnalysis) Hover(_ context.Context, doc Document, offset int) ([]string, error) {
	a.mu.Lock()
	a.hoverCalls++
	a.inFlight++
	a.maxInFlight = max(a.maxInFlight, a.inFlight)
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight--
		a.mu.Unlock()
	}()

	pos := position{doc.Path(), offset}
	if err, ok := a.hoverErrors[pos]; ok {
		return nil, err
	}
	return a.hovers[pos], nil
}

func sourceLocation(uri string, line, start, end int) Location {
	return Location{
		URI:      uri,
		Start:    protocol.Pos{Line: line, Character: start},
		End:      protocol.Pos{Line: line, Character: end},
		InSource: true,
	}
}

func metadataLocation(uri string) Location {
	return Location{URI: uri, InMetadata: true}
}

// collect runs a pipeline and returns every item handed to the sink.
func collect(t *testing.T, analysis Analysis, ws Workspace, opts Options) ([]protocol.Item, *Stats) {
	t.Helper()

	pipeline, err := NewPipeline(analysis, opts)
	require.NoError(t, err)

	var items []protocol.Item
	stats, err := pipeline.Run(context.Background(), ws, func(item protocol.Item) error {
		items = append(items, item)
		return nil
	})
	require.NoError(t, err)

	return items, stats
}

// requireSound writes items as a dump and checks it has no order, gap or
// reference violations.
func requireSound(t *testing.T, items []protocol.Item) {
	t.Helper()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	for _, item := range items {
		require.NoError(t, w.Write(item))
	}
	require.NoError(t, w.Flush())

	report, err := verify.Check(&buf)
	require.NoError(t, err)
	require.Empty(t, report.Violations)
	require.Equal(t, len(items), report.Items)
}

func labels(items []protocol.Item) []string {
	var result []string
	for _, item := range items {
		result = append(result, item.GetLabel())
	}
	return result
}

func ofLabel[T protocol.Item](items []protocol.Item, label string) []T {
	var result []T
	for _, item := range items {
		if item.GetLabel() != label {
			continue
		}
		if v, ok := item.(T); ok {
			result = append(result, v)
		}
	}
	return result
}

func countLabel(items []protocol.Item, label string) int {
	n := 0
	for _, item := range items {
		if item.GetLabel() == label {
			n++
		}
	}
	return n
}
