// Package semanticdb reads SemanticDB payloads and exposes them as the
// workspace, token source, resolver and hover provider of an indexing run.
//
// Only the parts of the schema the indexer needs are decoded; every other
// field is skipped.
package semanticdb

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

type Language int32

const (
	LanguageUnknown Language = 0
	LanguageScala   Language = 1
	LanguageJava    Language = 2
)

func (l Language) String() string {
	switch l {
	case LanguageScala:
		return "scala"
	case LanguageJava:
		return "java"
	default:
		return "unknown"
	}
}

type Role int32

const (
	RoleUnknown    Role = 0
	RoleReference  Role = 1
	RoleDefinition Role = 2
)

type Kind int32

const (
	KindUnknown       Kind = 0
	KindMethod        Kind = 3
	KindMacro         Kind = 6
	KindType          Kind = 7
	KindParameter     Kind = 8
	KindTypeParameter Kind = 9
	KindObject        Kind = 10
	KindPackage       Kind = 11
	KindPackageObject Kind = 12
	KindClass         Kind = 13
	KindTrait         Kind = 14
	KindSelfParameter Kind = 17
	KindInterface     Kind = 18
	KindLocal         Kind = 19
	KindField         Kind = 20
	KindConstructor   Kind = 21
)

// Property bits of SymbolInformation.properties.
const (
	PropertyAbstract = 0x4
	PropertyFinal    = 0x8
	PropertySealed   = 0x10
	PropertyImplicit = 0x20
	PropertyLazy     = 0x40
	PropertyCase     = 0x80
	PropertyVal      = 0x400
	PropertyVar      = 0x800
)

// Access is the field number of the access variant that is set, or zero.
type Access int32

const (
	AccessNone            Access = 0
	AccessPrivate         Access = 1
	AccessPrivateThis     Access = 2
	AccessPrivateWithin   Access = 3
	AccessProtected       Access = 4
	AccessProtectedThis   Access = 5
	AccessProtectedWithin Access = 6
	AccessPublic          Access = 7
)

type Range struct {
	StartLine      int32
	StartCharacter int32
	EndLine        int32
	EndCharacter   int32
}

type SymbolOccurrence struct {
	// Range is nil for occurrences without a source position.
	Range  *Range
	Symbol string
	Role   Role
}

type SymbolInformation struct {
	Symbol        string
	Kind          Kind
	Properties    int32
	DisplayName   string
	Access        Access
	Documentation string
}

type TextDocument struct {
	URI         string
	Text        string
	Language    Language
	Symbols     []*SymbolInformation
	Occurrences []*SymbolOccurrence
}

type TextDocuments struct {
	Documents []*TextDocument
}

// Unmarshal decodes a binary TextDocuments message.
func Unmarshal(data []byte) (*TextDocuments, error) {
	documents := &TextDocuments{}
	err := walkFields(data, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			document, err := unmarshalTextDocument(f.bytes)
			if err != nil {
				return errors.Wrap(err, "documents")
			}
			documents.Documents = append(documents.Documents, document)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return documents, nil
}

func unmarshalTextDocument(data []byte) (*TextDocument, error) {
	document := &TextDocument{}
	err := walkFields(data, func(f field) error {
		switch {
		case f.num == 2 && f.typ == protowire.BytesType:
			document.URI = string(f.bytes)
		case f.num == 3 && f.typ == protowire.BytesType:
			document.Text = string(f.bytes)
		case f.num == 10 && f.typ == protowire.VarintType:
			document.Language = Language(f.varint)
		case f.num == 5 && f.typ == protowire.BytesType:
			symbol, err := unmarshalSymbolInformation(f.bytes)
			if err != nil {
				return errors.Wrap(err, "symbols")
			}
			document.Symbols = append(document.Symbols, symbol)
		case f.num == 6 && f.typ == protowire.BytesType:
			occurrence, err := unmarshalSymbolOccurrence(f.bytes)
			if err != nil {
				return errors.Wrap(err, "occurrences")
			}
			document.Occurrences = append(document.Occurrences, occurrence)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}

func unmarshalSymbolInformation(data []byte) (*SymbolInformation, error) {
	symbol := &SymbolInformation{}
	err := walkFields(data, func(f field) error {
		switch {
		case f.num == 1 && f.typ == protowire.BytesType:
			symbol.Symbol = string(f.bytes)
		case f.num == 3 && f.typ == protowire.VarintType:
			symbol.Kind = Kind(f.varint)
		case f.num == 4 && f.typ == protowire.VarintType:
			symbol.Properties = int32(f.varint)
		case f.num == 5 && f.typ == protowire.BytesType:
			symbol.DisplayName = string(f.bytes)
		case f.num == 18 && f.typ == protowire.BytesType:
			access, err := unmarshalAccess(f.bytes)
			if err != nil {
				return errors.Wrap(err, "access")
			}
			symbol.Access = access
		case f.num == 20 && f.typ == protowire.BytesType:
			return walkFields(f.bytes, func(f field) error {
				if f.num == 1 && f.typ == protowire.BytesType {
					symbol.Documentation = string(f.bytes)
				}
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return symbol, nil
}

// unmarshalAccess returns the variant of the Access oneof that is present.
func unmarshalAccess(data []byte) (Access, error) {
	access := AccessNone
	err := walkFields(data, func(f field) error {
		if f.typ == protowire.BytesType && f.num >= 1 && f.num <= 7 {
			access = Access(f.num)
		}
		return nil
	})

	return access, err
}

func unmarshalSymbolOccurrence(data []byte) (*SymbolOccurrence, error) {
	occurrence := &SymbolOccurrence{}
	err := walkFields(data, func(f field) error {
		switch {
		case f.num == 1 && f.typ == protowire.BytesType:
			r, err := unmarshalRange(f.bytes)
			if err != nil {
				return errors.Wrap(err, "range")
			}
			occurrence.Range = r
		case f.num == 2 && f.typ == protowire.BytesType:
			occurrence.Symbol = string(f.bytes)
		case f.num == 3 && f.typ == protowire.VarintType:
			occurrence.Role = Role(f.varint)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return occurrence, nil
}

func unmarshalRange(data []byte) (*Range, error) {
	r := &Range{}
	err := walkFields(data, func(f field) error {
		if f.typ != protowire.VarintType {
			return nil
		}

		switch f.num {
		case 1:
			r.StartLine = int32(f.varint)
		case 2:
			r.StartCharacter = int32(f.varint)
		case 3:
			r.EndLine = int32(f.varint)
		case 4:
			r.EndCharacter = int32(f.varint)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// field is one decoded field. Only varint and length-delimited values are
// surfaced; other wire types are skipped.
type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func walkFields(data []byte, fn func(field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "tag")
		}
		data = data[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(data)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "field %d", num)
		}
		data = data[n:]

		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}

	return nil
}
