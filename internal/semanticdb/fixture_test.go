package semanticdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func encodeRange(r Range) []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(r.StartLine))
	b = appendVarint(b, 2, uint64(r.StartCharacter))
	b = appendVarint(b, 3, uint64(r.EndLine))
	b = appendVarint(b, 4, uint64(r.EndCharacter))
	return b
}

func encodeOccurrence(o *SymbolOccurrence) []byte {
	var b []byte
	if o.Range != nil {
		b = appendMessage(b, 1, encodeRange(*o.Range))
	}
	b = appendString(b, 2, o.Symbol)
	return appendVarint(b, 3, uint64(o.Role))
}

func encodeSymbolInformation(info *SymbolInformation) []byte {
	var b []byte
	b = appendString(b, 1, info.Symbol)
	b = appendVarint(b, 3, uint64(info.Kind))
	b = appendVarint(b, 4, uint64(info.Properties))
	b = appendString(b, 5, info.DisplayName)
	if info.Access != AccessNone {
		b = appendMessage(b, 18, appendMessage(nil, protowire.Number(info.Access), nil))
	}
	if info.Documentation != "" {
		b = appendMessage(b, 20, appendString(nil, 1, info.Documentation))
	}
	return b
}

func encodeTextDocument(d *TextDocument) []byte {
	var b []byte
	b = appendVarint(b, 1, 4) // schema
	b = appendString(b, 2, d.URI)
	b = appendString(b, 3, d.Text)
	b = appendVarint(b, 10, uint64(d.Language))
	for _, info := range d.Symbols {
		b = appendMessage(b, 5, encodeSymbolInformation(info))
	}
	for _, occurrence := range d.Occurrences {
		b = appendMessage(b, 6, encodeOccurrence(occurrence))
	}
	return b
}

func encodeTextDocuments(documents ...*TextDocument) []byte {
	var b []byte
	for _, d := range documents {
		b = appendMessage(b, 1, encodeTextDocument(d))
	}
	return b
}

func writeDatabase(t *testing.T, path string, documents ...*TextDocument) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, encodeTextDocuments(documents...), 0o644))
}

func occurrence(symbol string, role Role, startLine, startCharacter, endLine, endCharacter int32) *SymbolOccurrence {
	return &SymbolOccurrence{
		Range:  &Range{StartLine: startLine, StartCharacter: startCharacter, EndLine: endLine, EndCharacter: endCharacter},
		Symbol: symbol,
		Role:   role,
	}
}

const documentA = `object A {
  val x = B.foo
  C(x)
}
`

const documentB = `object B {
  def foo = 1
}
case class C(v: Int)
`

// fixtureA references symbols of fixtureB, a local and a library method.
func fixtureA() *TextDocument {
	return &TextDocument{
		URI:      "src/A.scala",
		Text:     documentA,
		Language: LanguageScala,
		Symbols: []*SymbolInformation{
			{Symbol: "example/A.", Kind: KindObject, DisplayName: "A", Access: AccessPublic},
			{Symbol: "local0", Kind: KindLocal, Properties: PropertyVal, DisplayName: "x"},
		},
		Occurrences: []*SymbolOccurrence{
			occurrence("example/A.", RoleDefinition, 0, 7, 0, 8),
			occurrence("local0", RoleDefinition, 1, 6, 1, 7),
			occurrence("example/B.", RoleReference, 1, 10, 1, 11),
			occurrence("example/B.foo().", RoleReference, 1, 12, 1, 15),
			occurrence("example/C.", RoleReference, 2, 2, 2, 3),
			occurrence("local0", RoleReference, 2, 4, 2, 5),
			{Symbol: "scala/Predef.println().", Role: RoleReference},
			occurrence("", RoleReference, 2, 3, 2, 4),
		},
	}
}

func fixtureB() *TextDocument {
	return &TextDocument{
		URI:      "src/B.scala",
		Text:     documentB,
		Language: LanguageScala,
		Symbols: []*SymbolInformation{
			{Symbol: "example/B.", Kind: KindObject, DisplayName: "B", Access: AccessPublic},
			{Symbol: "example/B.foo().", Kind: KindMethod, DisplayName: "foo", Access: AccessPublic, Documentation: "Returns one."},
			{Symbol: "example/C#", Kind: KindClass, Properties: PropertyCase, DisplayName: "C", Access: AccessPublic},
		},
		Occurrences: []*SymbolOccurrence{
			occurrence("example/B.", RoleDefinition, 0, 7, 0, 8),
			occurrence("example/B.foo().", RoleDefinition, 1, 6, 1, 9),
			occurrence("example/C#", RoleDefinition, 3, 11, 3, 12),
		},
	}
}

// loadFixture writes both fixtures into the META-INF tree of project app.
func loadFixture(t *testing.T) (*Workspace, string) {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "app", "META-INF", "semanticdb", "src")
	writeDatabase(t, filepath.Join(dir, "A.scala.semanticdb"), fixtureA())
	writeDatabase(t, filepath.Join(dir, "B.scala.semanticdb"), fixtureB())

	ws, err := Load(root)
	require.NoError(t, err)
	return ws, ws.Root()
}
