package index

import (
	"context"
	"iter"

	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// Workspace is a loaded solution: the set of projects to index.
type Workspace interface {
	// Root is the directory the dump is rooted at.
	Root() string
	Projects() []Project
}

type Project interface {
	Name() string
	Path() string
	Language() string
	Documents() []Document
}

type Document interface {
	Path() string
}

// Location is where a token or a declaration lives.
type Location struct {
	URI   string
	Start protocol.Pos
	End   protocol.Pos

	// InSource is false for code synthesized by the compiler.
	InSource bool
	// InMetadata is true for declarations that come from a dependency.
	InMetadata bool
}

// Candidate is a position that may name a symbol.
type Candidate struct {
	Offset   int
	Text     string
	Location Location
}

// TokenSource lists the candidate identifier positions of a document. The
// returned sequence is consumed once.
type TokenSource interface {
	Candidates(ctx context.Context, doc Document) (iter.Seq[Candidate], error)
}

type SymbolKind int

const (
	SymbolKindUnknown SymbolKind = iota
	SymbolKindNamespace
	SymbolKindLocal
	SymbolKindAlias
	SymbolKindType
	SymbolKindMethod
	SymbolKindField
	SymbolKindParameter
)

type Accessibility int

const (
	AccessibilityNotApplicable Accessibility = iota
	AccessibilityPrivate
	AccessibilityProtected
	AccessibilityInternal
	AccessibilityPublic
)

// Symbol is a resolved semantic symbol. Two symbols with the same Key are the
// same symbol.
type Symbol interface {
	Key() string
	Name() string
	Kind() SymbolKind
	Accessibility() Accessibility
	Locations() []Location

	// DisplayString is a stable, human readable form used as moniker
	// identifier.
	DisplayString() string
}

// Resolver finds the symbol named at an offset of a document. A nil symbol
// with a nil error means nothing was found.
type Resolver interface {
	Resolve(ctx context.Context, doc Document, offset int) (Symbol, error)
}

// HoverProvider returns pre-rendered hover blocks for the symbol at an offset.
// Empty contents mean there is nothing to show.
type HoverProvider interface {
	Hover(ctx context.Context, doc Document, offset int) ([]string, error)
}

// Analysis bundles the semantic collaborators of a run.
type Analysis interface {
	TokenSource
	Resolver
	HoverProvider
}

type indexedDocument struct {
	id       uint64
	document Document
}

type hoverRequest struct {
	resultSetID uint64
	document    Document
	offset      int
}
