package index

import (
	"context"

	"github.com/sourcegraph/lsif-flow/internal/log"
	"github.com/sourcegraph/lsif-flow/internal/metrics"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// hoverItems computes the hover result of a request. It never touches the
// symbol cache. Failed or empty lookups yield no items.
func hoverItems(ctx context.Context, provider HoverProvider, ids *idGenerator, recorder *metrics.Recorder, req hoverRequest) []protocol.Item {
	contents, err := provider.Hover(ctx, req.document, req.offset)
	if err != nil {
		recorder.HoverLookup(metrics.HoverFailed)
		log.Warn("hover lookup failed", "document", req.document.Path(), "offset", req.offset, "error", err)
		return nil
	}

	if len(contents) == 0 {
		recorder.HoverLookup(metrics.HoverEmpty)
		log.Debug("no hover content", "document", req.document.Path(), "offset", req.offset)
		return nil
	}

	recorder.HoverLookup(metrics.HoverFound)
	hoverResultID := ids.next()
	return []protocol.Item{
		protocol.NewHoverResult(hoverResultID, contents),
		protocol.NewTextDocumentHover(ids.next(), req.resultSetID, hoverResultID),
	}
}

// queuedHovers sends requests to the parallel hover stage. Sending blocks
// while the stage's queue is full.
type queuedHovers struct {
	requests chan<- hoverRequest
}

func (h queuedHovers) dispatch(ctx context.Context, req hoverRequest, _ emitFunc) error {
	return send(ctx, h.requests, req)
}

// inlineHovers computes hover results on the calling goroutine.
type inlineHovers struct {
	provider HoverProvider
	ids      *idGenerator
	metrics  *metrics.Recorder
}

func (h inlineHovers) dispatch(ctx context.Context, req hoverRequest, emit emitFunc) error {
	for _, item := range hoverItems(ctx, h.provider, h.ids, h.metrics, req) {
		if err := emit(item); err != nil {
			return err
		}
	}

	return nil
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
