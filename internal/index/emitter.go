package index

import (
	"context"
	"time"

	"github.com/sourcegraph/lsif-flow/internal/log"
	"github.com/sourcegraph/lsif-flow/internal/metrics"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// knownUnresolvableKeyword is the one token text that resolvers report as an
// identifier without ever binding it to a symbol.
const knownUnresolvableKeyword = "nameof"

// globalAliasName is the name of the alias symbol for the global namespace.
// Comparing two of them crashes some resolvers, so they are never cached.
const globalAliasName = "global"

type emitFunc func(protocol.Item) error

// hoverDispatcher hands a hover request to whoever computes it. Items that
// result from the request may be emitted later, or through emit right away.
type hoverDispatcher interface {
	dispatch(ctx context.Context, req hoverRequest, emit emitFunc) error
}

// documentEmitter walks documents one at a time and owns the symbol cache.
type documentEmitter struct {
	ids           *idGenerator
	cache         *symbolCache
	analysis      Analysis
	hovers        hoverDispatcher
	monikerScheme string
	metrics       *metrics.Recorder
}

// emitDocument emits the ranges of a document, the items linking them to
// result sets, the document contains edge and the flushed reference items.
func (e *documentEmitter) emitDocument(ctx context.Context, doc indexedDocument, emit emitFunc) error {
	started := time.Now()
	firstID := e.ids.current()
	path := doc.document.Path()
	log.Debug("emitting document", "document", path)

	var rangeIDs []uint64
	candidates, err := e.analysis.Candidates(ctx, doc.document)
	if err != nil {
		log.Warn("cannot list candidate tokens", "document", path, "error", err)
	} else {
		for candidate := range candidates {
			rangeID, err := e.emitCandidate(ctx, doc, candidate, emit)
			if err != nil {
				return err
			}
			if rangeID != 0 {
				rangeIDs = append(rangeIDs, rangeID)
			}
		}
	}

	if err := emit(protocol.NewContains(e.ids.next(), doc.id, rangeIDs)); err != nil {
		return err
	}

	for _, item := range e.cache.flushAll(doc.id) {
		if err := emit(item); err != nil {
			return err
		}
	}

	e.metrics.DocumentEmitted(time.Since(started))
	log.Debug("emitted document", "document", path, "items", e.ids.current()-firstID)
	return nil
}

// emitCandidate emits the items for one candidate position and returns the
// id of its range, or zero when the candidate was skipped.
func (e *documentEmitter) emitCandidate(ctx context.Context, doc indexedDocument, candidate Candidate, emit emitFunc) (uint64, error) {
	symbol, err := e.analysis.Resolve(ctx, doc.document, candidate.Offset)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		e.metrics.TokenSkipped(metrics.SkipResolveError)
		log.Warn("symbol resolution failed", "token", candidate.Text, "document", doc.document.Path(), "error", err)
		return 0, nil
	}

	if symbol == nil {
		e.metrics.TokenSkipped(metrics.SkipUnresolved)
		if candidate.Text != knownUnresolvableKeyword {
			log.Warn("symbol not found", "token", candidate.Text, "document", doc.document.Path(), "start", candidate.Location.Start)
		}
		return 0, nil
	}

	if symbol.Kind() == SymbolKindAlias && symbol.Name() == globalAliasName {
		e.metrics.TokenSkipped(metrics.SkipGlobalAlias)
		log.Debug("skipped global alias", "document", doc.document.Path(), "start", candidate.Location.Start)
		return 0, nil
	}

	if !candidate.Location.InSource {
		e.metrics.TokenSkipped(metrics.SkipNotInSource)
		log.Warn("skipped not-in-source token", "token", candidate.Text, "document", doc.document.Path())
		return 0, nil
	}

	isDefinition := false
	for _, location := range symbol.Locations() {
		if location == candidate.Location {
			isDefinition = true
			break
		}
	}

	rangeID := e.ids.next()
	if err := emit(protocol.NewRange(rangeID, candidate.Location.Start, candidate.Location.End)); err != nil {
		return 0, err
	}

	entry, isNew := e.cache.lookupOrCreate(symbol)
	if !isNew {
		if err := emit(protocol.NewNext(e.ids.next(), rangeID, entry.resultSetID)); err != nil {
			return 0, err
		}

		e.cache.recordOccurrence(entry, rangeID, isDefinition)
		return rangeID, nil
	}

	if err := emit(protocol.NewResultSet(entry.resultSetID)); err != nil {
		return 0, err
	}
	if err := emit(protocol.NewNext(e.ids.next(), rangeID, entry.resultSetID)); err != nil {
		return 0, err
	}

	req := hoverRequest{resultSetID: entry.resultSetID, document: doc.document, offset: candidate.Offset}
	if err := e.hovers.dispatch(ctx, req, emit); err != nil {
		return 0, err
	}

	if shouldImport(symbol) {
		if err := e.emitMoniker(protocol.MonikerImport, symbol, entry.resultSetID, emit); err != nil {
			return 0, err
		}
	} else if shouldExport(symbol) {
		if err := e.emitMoniker(protocol.MonikerExport, symbol, entry.resultSetID, emit); err != nil {
			return 0, err
		}
	}

	e.cache.recordOccurrence(entry, rangeID, isDefinition)
	return rangeID, nil
}

func (e *documentEmitter) emitMoniker(kind protocol.MonikerKind, symbol Symbol, resultSetID uint64, emit emitFunc) error {
	monikerID := e.ids.next()
	if err := emit(protocol.NewMoniker(monikerID, kind, e.monikerScheme, symbol.DisplayString())); err != nil {
		return err
	}

	return emit(protocol.NewMonikerEdge(e.ids.next(), resultSetID, monikerID))
}

// shouldImport is true for symbols declared in a dependency.
func shouldImport(symbol Symbol) bool {
	for _, location := range symbol.Locations() {
		if location.InMetadata {
			return true
		}
	}

	return false
}

// shouldExport is true for public, non-local symbols declared in source.
func shouldExport(symbol Symbol) bool {
	if symbol.Accessibility() != AccessibilityPublic || symbol.Kind() == SymbolKindLocal {
		return false
	}

	for _, location := range symbol.Locations() {
		if location.InSource {
			return true
		}
	}

	return false
}
