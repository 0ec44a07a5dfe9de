package semanticdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/lsif-flow/internal/index"
)

// Resolve returns the symbol of the occurrence at offset.
func (w *Workspace) Resolve(ctx context.Context, doc index.Document, offset int) (index.Symbol, error) {
	d, err := asDocument(doc)
	if err != nil {
		return nil, err
	}

	if offset < 0 || offset >= len(d.document.Occurrences) {
		return nil, errors.Errorf("occurrence %d out of range in %s", offset, d.document.URI)
	}

	occurrence := d.document.Occurrences[offset]
	if occurrence.Symbol == "" {
		return nil, nil
	}

	entry := w.lookup(d, occurrence.Symbol)
	if entry == nil {
		return nil, nil
	}

	return &symbol{entry: entry}, nil
}

// lookup finds the entry of a symbol, preferring a spelling that has a
// definition in the workspace.
func (w *Workspace) lookup(d *Document, key string) *symbolEntry {
	if isLocal(key) {
		return d.locals[key]
	}

	keys := []string{key}
	keys = append(keys, strings.Replace(key, ".", "#", -1))                               // pattern matching case class
	keys = append(keys, strings.Replace(strings.Replace(key, "_=", "", -1), "`", "", -1)) // field assignment

	for _, k := range keys {
		if entry, ok := w.globals[k]; ok && len(entry.definitions) > 0 {
			return entry
		}
	}

	return w.globals[key]
}

// Hover renders the signature line and documentation of the symbol at
// offset. It only reads state built by Load.
func (w *Workspace) Hover(ctx context.Context, doc index.Document, offset int) ([]string, error) {
	s, err := w.Resolve(ctx, doc, offset)
	if err != nil || s == nil {
		return nil, err
	}

	entry := s.(*symbol).entry
	if entry.info == nil {
		return nil, nil
	}

	contents := []string{
		fmt.Sprintf("```%s\n%s\n```", entry.language, signature(entry.info)),
	}
	if entry.info.Documentation != "" {
		contents = append(contents, entry.info.Documentation)
	}

	return contents, nil
}

func signature(info *SymbolInformation) string {
	var modifiers []string
	for _, p := range []struct {
		bit  int32
		name string
	}{
		{PropertyImplicit, "implicit"},
		{PropertySealed, "sealed"},
		{PropertyFinal, "final"},
		{PropertyLazy, "lazy"},
		{PropertyCase, "case"},
	} {
		if info.Properties&p.bit != 0 {
			modifiers = append(modifiers, p.name)
		}
	}
	if info.Properties&PropertyAbstract != 0 && info.Kind == KindClass {
		modifiers = append(modifiers, "abstract")
	}

	if keyword := keywordOf(info); keyword != "" {
		modifiers = append(modifiers, keyword)
	}

	return strings.Join(append(modifiers, info.DisplayName), " ")
}

func keywordOf(info *SymbolInformation) string {
	switch info.Kind {
	case KindClass:
		return "class"
	case KindTrait:
		return "trait"
	case KindInterface:
		return "interface"
	case KindObject:
		return "object"
	case KindPackage:
		return "package"
	case KindPackageObject:
		return "package object"
	case KindMethod, KindConstructor:
		return "def"
	case KindMacro:
		return "macro"
	case KindType:
		return "type"
	case KindField, KindLocal:
		if info.Properties&PropertyVar != 0 {
			return "var"
		}
		return "val"
	}

	return ""
}

// symbol is a resolved SemanticDB symbol. Its key is the global symbol, or
// the document URI plus the local symbol for locals.
type symbol struct {
	entry *symbolEntry
}

var _ index.Symbol = &symbol{}

func (s *symbol) Key() string { return s.entry.key }

func (s *symbol) Name() string {
	if s.entry.info != nil && s.entry.info.DisplayName != "" {
		return s.entry.info.DisplayName
	}
	return s.entry.symbol
}

func (s *symbol) Kind() index.SymbolKind {
	if isLocal(s.entry.symbol) {
		return index.SymbolKindLocal
	}

	if s.entry.info == nil {
		if strings.HasSuffix(s.entry.symbol, "/") {
			return index.SymbolKindNamespace
		}
		return index.SymbolKindUnknown
	}

	switch s.entry.info.Kind {
	case KindPackage, KindPackageObject:
		return index.SymbolKindNamespace
	case KindLocal:
		return index.SymbolKindLocal
	case KindMethod, KindConstructor, KindMacro:
		return index.SymbolKindMethod
	case KindField:
		return index.SymbolKindField
	case KindParameter, KindSelfParameter, KindTypeParameter:
		return index.SymbolKindParameter
	case KindType, KindClass, KindTrait, KindInterface, KindObject:
		return index.SymbolKindType
	}

	return index.SymbolKindUnknown
}

func (s *symbol) Accessibility() index.Accessibility {
	if s.entry.info == nil {
		return index.AccessibilityNotApplicable
	}

	switch s.entry.info.Access {
	case AccessPublic:
		return index.AccessibilityPublic
	case AccessPrivate, AccessPrivateThis, AccessPrivateWithin:
		return index.AccessibilityPrivate
	case AccessProtected, AccessProtectedThis, AccessProtectedWithin:
		return index.AccessibilityProtected
	}

	return index.AccessibilityNotApplicable
}

// Locations returns the definitions found in the workspace. Symbols defined
// elsewhere have a single metadata location.
func (s *symbol) Locations() []index.Location {
	if len(s.entry.definitions) == 0 {
		return []index.Location{{InMetadata: true}}
	}
	return s.entry.definitions
}

func (s *symbol) DisplayString() string {
	return s.entry.symbol
}

func isLocal(symbol string) bool {
	return strings.HasPrefix(symbol, "local")
}
