// Package protocol defines the vertices and edges of an LSIF dump and their
// JSON shape. Every constructor takes an already minted id; minting is the
// caller's concern.
package protocol

// Version is the LSIF protocol version written into the metaData vertex.
const Version = "0.4.0"

// PositionEncoding is the encoding of character offsets in range vertices.
const PositionEncoding = "utf-16"

// ElementType distinguishes vertices from edges.
type ElementType string

const (
	ElementVertex ElementType = "vertex"
	ElementEdge   ElementType = "edge"
)

// Vertex labels.
const (
	VertexMetaData         = "metaData"
	VertexProject          = "project"
	VertexDocument         = "document"
	VertexRange            = "range"
	VertexResultSet        = "resultSet"
	VertexHoverResult      = "hoverResult"
	VertexReferenceResult  = "referenceResult"
	VertexDefinitionResult = "definitionResult"
	VertexMoniker          = "moniker"
)

// Edge labels.
const (
	EdgeNext                   = "next"
	EdgeContains               = "contains"
	EdgeItem                   = "item"
	EdgeMoniker                = "moniker"
	EdgeTextDocumentHover      = "textDocument/hover"
	EdgeTextDocumentReferences = "textDocument/references"
	EdgeTextDocumentDefinition = "textDocument/definition"
)

// ItemProperty tags the ranges grouped by an item edge.
type ItemProperty string

const (
	PropertyReferences  ItemProperty = "references"
	PropertyDefinitions ItemProperty = "definitions"
)

// MonikerKind tells whether a symbol is defined in this dump or elsewhere.
type MonikerKind string

const (
	MonikerImport MonikerKind = "import"
	MonikerExport MonikerKind = "export"
)

// Item is a single line of a dump.
type Item interface {
	GetID() uint64
	GetType() ElementType
	GetLabel() string
}

// Edge is an item that refers to other items by id.
type Edge interface {
	Item

	// Vertices returns every id the edge refers to.
	Vertices() []uint64
}

// Element holds the fields common to every item.
type Element struct {
	ID    uint64      `json:"id"`
	Type  ElementType `json:"type"`
	Label string      `json:"label"`
}

func (e Element) GetID() uint64        { return e.ID }
func (e Element) GetType() ElementType { return e.Type }
func (e Element) GetLabel() string     { return e.Label }

func vertex(id uint64, label string) Element {
	return Element{ID: id, Type: ElementVertex, Label: label}
}

func edge(id uint64, label string) Element {
	return Element{ID: id, Type: ElementEdge, Label: label}
}
