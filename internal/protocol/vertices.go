package protocol

// ToolInfo describes the program that produced a dump.
type ToolInfo struct {
	Name    string   `json:"name"`
	Version string   `json:"version,omitempty"`
	Args    []string `json:"args,omitempty"`
}

type MetaData struct {
	Element
	Version          string   `json:"version"`
	PositionEncoding string   `json:"positionEncoding"`
	ProjectRoot      string   `json:"projectRoot"`
	ToolInfo         ToolInfo `json:"toolInfo"`
}

func NewMetaData(id uint64, projectRoot string, toolInfo ToolInfo) MetaData {
	return MetaData{
		Element:          vertex(id, VertexMetaData),
		Version:          Version,
		PositionEncoding: PositionEncoding,
		ProjectRoot:      projectRoot,
		ToolInfo:         toolInfo,
	}
}

type Project struct {
	Element
	Resource string `json:"resource,omitempty"`
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
}

func NewProject(id uint64, resource, name, languageID string) Project {
	return Project{
		Element:  vertex(id, VertexProject),
		Resource: resource,
		Kind:     languageID,
		Name:     name,
	}
}

type Document struct {
	Element
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
}

func NewDocument(id uint64, uri, languageID string) Document {
	return Document{
		Element:    vertex(id, VertexDocument),
		URI:        uri,
		LanguageID: languageID,
	}
}

// Pos is a zero-based line and character offset.
type Pos struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Element
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

func NewRange(id uint64, start, end Pos) Range {
	return Range{
		Element: vertex(id, VertexRange),
		Start:   start,
		End:     end,
	}
}

// ResultVertex is a vertex without payload: resultSet, referenceResult and
// definitionResult.
type ResultVertex struct {
	Element
}

func NewResultSet(id uint64) ResultVertex {
	return ResultVertex{Element: vertex(id, VertexResultSet)}
}

func NewReferenceResult(id uint64) ResultVertex {
	return ResultVertex{Element: vertex(id, VertexReferenceResult)}
}

func NewDefinitionResult(id uint64) ResultVertex {
	return ResultVertex{Element: vertex(id, VertexDefinitionResult)}
}

type HoverContents struct {
	Contents []string `json:"contents"`
}

type HoverResult struct {
	Element
	Result HoverContents `json:"result"`
}

func NewHoverResult(id uint64, contents []string) HoverResult {
	return HoverResult{
		Element: vertex(id, VertexHoverResult),
		Result:  HoverContents{Contents: contents},
	}
}

type Moniker struct {
	Element
	Kind       MonikerKind `json:"kind"`
	Scheme     string      `json:"scheme"`
	Identifier string      `json:"identifier"`
}

func NewMoniker(id uint64, kind MonikerKind, scheme, identifier string) Moniker {
	return Moniker{
		Element:    vertex(id, VertexMoniker),
		Kind:       kind,
		Scheme:     scheme,
		Identifier: identifier,
	}
}
