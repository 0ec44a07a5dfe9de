package index

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/sourcegraph/lsif-flow/internal/log"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// Indexer writes the LSIF dump of a workspace.
type Indexer interface {
	Index(ctx context.Context) (*Stats, error)
}

type indexer struct {
	workspace Workspace
	analysis  Analysis
	opts      Options
	w         JSONWriter
}

// NewIndexer creates a new Indexer writing JSON lines to w.
func NewIndexer(workspace Workspace, analysis Analysis, opts Options, w io.Writer) Indexer {
	return &indexer{
		workspace: workspace,
		analysis:  analysis,
		opts:      opts,
		w:         NewJSONWriter(w),
	}
}

// Index generates an LSIF dump of the workspace and writes it to the output
// source that implements io.Writer. It is caller's responsibility to close
// the output source if applicable.
func (i *indexer) Index(ctx context.Context) (*Stats, error) {
	pipeline, err := NewPipeline(i.analysis, i.opts)
	if err != nil {
		return nil, err
	}

	stats, err := pipeline.Run(ctx, i.workspace, func(item protocol.Item) error {
		return i.w.Write(item)
	})
	if err != nil {
		return nil, errors.Wrap(err, "pipeline.Run")
	}

	if err := i.w.Flush(); err != nil {
		return nil, errors.Wrap(err, "writer.Flush")
	}

	if stats.NumGaps > 0 {
		log.Error("dump has missing ids", "gaps", stats.NumGaps)
	}

	return stats, nil
}
