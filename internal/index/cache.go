package index

import (
	"sync/atomic"

	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// idGenerator mints item ids. It is shared by the emission and hover stages.
type idGenerator struct {
	last atomic.Uint64
}

func newIDGenerator(start uint64) *idGenerator {
	g := &idGenerator{}
	g.last.Store(start)
	return g
}

func (g *idGenerator) next() uint64 {
	return g.last.Add(1)
}

func (g *idGenerator) current() uint64 {
	return g.last.Load()
}

// symbolRef is a range referring to a cached symbol.
type symbolRef struct {
	rangeID      uint64
	isDefinition bool
}

// cachedSymbol is the state kept for one distinct symbol. Result ids are zero
// until the first flush that needs them; ids are never zero once minted.
type cachedSymbol struct {
	resultSetID        uint64
	definitionResultID uint64
	referenceResultID  uint64

	// trackRefs is false for namespaces and imported symbols, which never
	// collect references.
	trackRefs bool
	pending   []symbolRef
}

// symbolCache deduplicates symbols by identity and accumulates the ranges
// referring to them until the end of the current document. It is not safe
// for concurrent use; only the document emission stage touches it.
type symbolCache struct {
	ids     *idGenerator
	symbols map[string]*cachedSymbol // Keys: symbol key

	// dirty lists the entries with pending refs in the order they became
	// pending, which keeps flush output deterministic.
	dirty []*cachedSymbol
}

func newSymbolCache(ids *idGenerator) *symbolCache {
	return &symbolCache{
		ids:     ids,
		symbols: map[string]*cachedSymbol{},
	}
}

// lookupOrCreate returns the entry for the symbol, minting a result set id on
// first encounter.
func (c *symbolCache) lookupOrCreate(symbol Symbol) (*cachedSymbol, bool) {
	key := symbol.Key()
	if entry, ok := c.symbols[key]; ok {
		return entry, false
	}

	entry := &cachedSymbol{
		resultSetID: c.ids.next(),
		trackRefs:   symbol.Kind() != SymbolKindNamespace && !shouldImport(symbol),
	}
	c.symbols[key] = entry
	return entry, true
}

func (c *symbolCache) recordOccurrence(entry *cachedSymbol, rangeID uint64, isDefinition bool) {
	if !entry.trackRefs {
		return
	}

	if len(entry.pending) == 0 {
		c.dirty = append(c.dirty, entry)
	}
	entry.pending = append(entry.pending, symbolRef{rangeID: rangeID, isDefinition: isDefinition})
}

func (c *symbolCache) len() int {
	return len(c.symbols)
}

// flushAll converts every pending reference into item edges attributed to
// the given document and clears the pending lists.
func (c *symbolCache) flushAll(documentID uint64) []protocol.Item {
	var items []protocol.Item

	for _, entry := range c.dirty {
		if len(entry.pending) == 0 {
			continue
		}

		if entry.referenceResultID == 0 {
			entry.referenceResultID = c.ids.next()
			items = append(items,
				protocol.NewReferenceResult(entry.referenceResultID),
				protocol.NewTextDocumentReferences(c.ids.next(), entry.resultSetID, entry.referenceResultID),
			)
		}

		var defRangeIDs, refRangeIDs []uint64
		for _, ref := range entry.pending {
			if ref.isDefinition {
				defRangeIDs = append(defRangeIDs, ref.rangeID)
			} else {
				refRangeIDs = append(refRangeIDs, ref.rangeID)
			}
		}

		if len(defRangeIDs) > 0 {
			if entry.definitionResultID == 0 {
				entry.definitionResultID = c.ids.next()
				items = append(items,
					protocol.NewDefinitionResult(entry.definitionResultID),
					protocol.NewTextDocumentDefinition(c.ids.next(), entry.resultSetID, entry.definitionResultID),
				)
			}

			// Definitions are also listed as references.
			items = append(items,
				protocol.NewItemOfDefinitions(c.ids.next(), entry.definitionResultID, defRangeIDs, documentID),
				protocol.NewItemOfDefinitions(c.ids.next(), entry.referenceResultID, defRangeIDs, documentID),
			)
		}

		if len(refRangeIDs) > 0 {
			items = append(items, protocol.NewItemOfReferences(c.ids.next(), entry.referenceResultID, refRangeIDs, documentID))
		}

		entry.pending = nil
	}

	c.dirty = c.dirty[:0]
	return items
}
