package protocol

// SingleEdge connects exactly one vertex to exactly one vertex.
type SingleEdge struct {
	Element
	OutV uint64 `json:"outV"`
	InV  uint64 `json:"inV"`
}

func (e SingleEdge) Vertices() []uint64 {
	return []uint64{e.OutV, e.InV}
}

func newSingleEdge(id uint64, label string, outV, inV uint64) SingleEdge {
	return SingleEdge{Element: edge(id, label), OutV: outV, InV: inV}
}

func NewNext(id, outV, inV uint64) SingleEdge {
	return newSingleEdge(id, EdgeNext, outV, inV)
}

func NewTextDocumentHover(id, outV, inV uint64) SingleEdge {
	return newSingleEdge(id, EdgeTextDocumentHover, outV, inV)
}

func NewTextDocumentReferences(id, outV, inV uint64) SingleEdge {
	return newSingleEdge(id, EdgeTextDocumentReferences, outV, inV)
}

func NewTextDocumentDefinition(id, outV, inV uint64) SingleEdge {
	return newSingleEdge(id, EdgeTextDocumentDefinition, outV, inV)
}

func NewMonikerEdge(id, outV, inV uint64) SingleEdge {
	return newSingleEdge(id, EdgeMoniker, outV, inV)
}

// MultipleEdge connects one vertex to many.
type MultipleEdge struct {
	Element
	OutV uint64   `json:"outV"`
	InVs []uint64 `json:"inVs"`
}

func (e MultipleEdge) Vertices() []uint64 {
	return append([]uint64{e.OutV}, e.InVs...)
}

func NewContains(id, outV uint64, inVs []uint64) MultipleEdge {
	if inVs == nil {
		inVs = []uint64{}
	}

	return MultipleEdge{Element: edge(id, EdgeContains), OutV: outV, InVs: inVs}
}

// ItemEdge groups ranges of one document under a reference or definition
// result.
type ItemEdge struct {
	Element
	OutV     uint64       `json:"outV"`
	InVs     []uint64     `json:"inVs"`
	Document uint64       `json:"document"`
	Property ItemProperty `json:"property,omitempty"`
}

func (e ItemEdge) Vertices() []uint64 {
	return append([]uint64{e.OutV, e.Document}, e.InVs...)
}

// NewItem creates an item edge without a property.
func NewItem(id, outV uint64, inVs []uint64, document uint64) ItemEdge {
	return ItemEdge{Element: edge(id, EdgeItem), OutV: outV, InVs: inVs, Document: document}
}

func NewItemOfDefinitions(id, outV uint64, inVs []uint64, document uint64) ItemEdge {
	e := NewItem(id, outV, inVs, document)
	e.Property = PropertyDefinitions
	return e
}

func NewItemOfReferences(id, outV uint64, inVs []uint64, document uint64) ItemEdge {
	e := NewItem(id, outV, inVs, document)
	e.Property = PropertyReferences
	return e
}
