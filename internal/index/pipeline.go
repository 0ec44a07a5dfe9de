package index

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sourcegraph/lsif-flow/internal/log"
	"github.com/sourcegraph/lsif-flow/internal/metrics"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

const (
	// LanguageScala is the only language indexed by default.
	LanguageScala = "scala"

	// DefaultMonikerScheme is the scheme of emitted monikers.
	DefaultMonikerScheme = "semanticdb"

	// DefaultParallelism is the number of concurrent hover lookups.
	DefaultParallelism = 4
)

// Queue sizes between stages. The hover queue bounds how far document
// emission can run ahead of hover lookups.
const (
	documentQueueSize   = 64
	hoverQueuePerWorker = 16
	itemQueueSize       = 1024
)

// Options configure a pipeline run.
type Options struct {
	// Parallelism is the number of concurrent hover lookups. Zero selects the
	// sequential indexer.
	Parallelism int

	// StartID is the id preceding the first minted id.
	StartID uint64

	// Language is the project language that gets documents indexed.
	Language string

	MonikerScheme string

	// Exclude lists paths or globs of projects and documents to skip.
	Exclude []string

	ToolInfo protocol.ToolInfo

	PrintProgressDots bool

	Metrics *metrics.Recorder
}

// Stats contains statistics of data processed during index.
type Stats struct {
	NumProjects  uint
	NumDocuments uint
	NumSymbols   uint
	NumElements  uint64
	NumGaps      uint
}

// Pipeline turns a workspace into a stream of items in ascending id order.
// A pipeline runs once.
type Pipeline struct {
	analysis Analysis
	opts     Options
	ids      *idGenerator
	cache    *symbolCache
	stats    Stats
}

// NewPipeline creates a pipeline over the given semantic collaborators.
func NewPipeline(analysis Analysis, opts Options) (*Pipeline, error) {
	if opts.Parallelism < 0 {
		return nil, errors.Errorf("parallelism must not be negative, got %d", opts.Parallelism)
	}
	if opts.Language == "" {
		opts.Language = LanguageScala
	}
	if opts.MonikerScheme == "" {
		opts.MonikerScheme = DefaultMonikerScheme
	}

	ids := newIDGenerator(opts.StartID)
	return &Pipeline{
		analysis: analysis,
		opts:     opts,
		ids:      ids,
		cache:    newSymbolCache(ids),
	}, nil
}

// Run indexes the workspace and hands every item to sink in ascending id
// order. An item is valid to process as soon as sink receives it. Only sink
// errors and cancellation of ctx abort the run.
func (p *Pipeline) Run(ctx context.Context, ws Workspace, sink func(protocol.Item) error) (*Stats, error) {
	buffer := newReorderBuffer(func(item protocol.Item) error {
		p.stats.NumElements++
		p.opts.Metrics.ItemWritten(item.GetLabel())
		return sink(item)
	}, p.opts.Metrics)

	var err error
	if p.opts.Parallelism == 0 {
		err = p.runSequential(ctx, ws, buffer.push)
	} else {
		err = p.runConcurrent(ctx, ws, buffer.push)
	}
	if err != nil {
		return nil, err
	}

	if err := buffer.close(); err != nil {
		return nil, err
	}

	p.stats.NumSymbols = uint(p.cache.len())
	p.stats.NumGaps = buffer.gaps
	return &p.stats, nil
}

// runConcurrent wires the stages:
//
//	solution -> projects -> documents -> document emission -> merged items
//	                                           \-> hovers (parallel) -/
//
// Document emission is a single goroutine, which makes it the only writer of
// the symbol cache.
func (p *Pipeline) runConcurrent(ctx context.Context, ws Workspace, push emitFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	projects := make(chan Project)
	documents := make(chan indexedDocument, documentQueueSize)
	hoverRequests := make(chan hoverRequest, p.opts.Parallelism*hoverQueuePerWorker)
	items := make(chan protocol.Item, itemQueueSize)

	out := func(item protocol.Item) error {
		return send(ctx, items, item)
	}

	emitter := p.newDocumentEmitter(queuedHovers{requests: hoverRequests})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(projects)
		return p.emitSolution(gctx, ws, out, func(project Project) error {
			return send(gctx, projects, project)
		})
	})
	g.Go(func() error {
		defer close(documents)
		for project := range projects {
			if err := p.emitProject(gctx, project, out, func(doc indexedDocument) error {
				return send(gctx, documents, doc)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		defer close(hoverRequests)
		for doc := range documents {
			p.progress()
			if err := emitter.emitDocument(gctx, doc, out); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		return p.runHovers(gctx, hoverRequests, out)
	})

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(items)
	}()

	var sinkErr error
	for item := range items {
		if sinkErr != nil {
			continue
		}
		if err := push(item); err != nil {
			sinkErr = err
			cancel()
		}
	}

	waitErr := <-done
	if sinkErr != nil {
		return sinkErr
	}
	return waitErr
}

// runHovers computes hover results with bounded parallelism. Results join the
// merged stream whenever they complete.
func (p *Pipeline) runHovers(ctx context.Context, requests <-chan hoverRequest, out emitFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Parallelism)

	for req := range requests {
		g.Go(func() error {
			for _, item := range hoverItems(gctx, p.analysis, p.ids, p.opts.Metrics, req) {
				if err := out(item); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// runSequential emits everything from the calling goroutine, computing hover
// results inline. It needs far less memory than the concurrent pipeline.
func (p *Pipeline) runSequential(ctx context.Context, ws Workspace, push emitFunc) error {
	emitter := p.newDocumentEmitter(inlineHovers{provider: p.analysis, ids: p.ids, metrics: p.opts.Metrics})

	return p.emitSolution(ctx, ws, push, func(project Project) error {
		projectID, ok, err := p.emitProjectVertex(project, push)
		if err != nil || !ok {
			return err
		}

		var documentIDs []uint64
		for _, document := range p.includedDocuments(project) {
			doc := indexedDocument{id: p.ids.next(), document: document}
			if err := push(protocol.NewDocument(doc.id, toURI(document.Path()), p.opts.Language)); err != nil {
				return err
			}

			p.stats.NumDocuments++
			documentIDs = append(documentIDs, doc.id)
			p.progress()
			if err := emitter.emitDocument(ctx, doc, push); err != nil {
				return err
			}
		}

		return push(protocol.NewContains(p.ids.next(), projectID, documentIDs))
	})
}

func (p *Pipeline) newDocumentEmitter(hovers hoverDispatcher) *documentEmitter {
	return &documentEmitter{
		ids:           p.ids,
		cache:         p.cache,
		analysis:      p.analysis,
		hovers:        hovers,
		monikerScheme: p.opts.MonikerScheme,
		metrics:       p.opts.Metrics,
	}
}

// emitSolution emits the metaData vertex and hands every included project to
// next.
func (p *Pipeline) emitSolution(ctx context.Context, ws Workspace, emit emitFunc, next func(Project) error) error {
	log.Info("emitting solution", "root", ws.Root())

	if err := emit(protocol.NewMetaData(p.ids.next(), toURI(ws.Root()), p.opts.ToolInfo)); err != nil {
		return err
	}

	for _, project := range ws.Projects() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if isExcluded(p.opts.Exclude, project.Path()) {
			log.Info("skipped excluded project", "project", project.Path())
			continue
		}

		if err := next(project); err != nil {
			return err
		}
	}

	return nil
}

// emitProject emits the project and document vertices and the project
// contains edge, then hands the documents to next.
func (p *Pipeline) emitProject(ctx context.Context, project Project, emit emitFunc, next func(indexedDocument) error) error {
	projectID, ok, err := p.emitProjectVertex(project, emit)
	if err != nil || !ok {
		return err
	}

	var docs []indexedDocument
	for _, document := range p.includedDocuments(project) {
		doc := indexedDocument{id: p.ids.next(), document: document}
		if err := emit(protocol.NewDocument(doc.id, toURI(document.Path()), p.opts.Language)); err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	documentIDs := make([]uint64, 0, len(docs))
	for _, doc := range docs {
		documentIDs = append(documentIDs, doc.id)
	}
	if err := emit(protocol.NewContains(p.ids.next(), projectID, documentIDs)); err != nil {
		return err
	}

	p.stats.NumDocuments += uint(len(docs))
	for _, doc := range docs {
		if err := next(doc); err != nil {
			return err
		}
	}

	return ctx.Err()
}

// emitProjectVertex emits the project vertex. It reports false for projects
// whose language is not indexed.
func (p *Pipeline) emitProjectVertex(project Project, emit emitFunc) (uint64, bool, error) {
	log.Info("emitting project", "language", project.Language(), "project", project.Path())

	projectID := p.ids.next()
	if err := emit(protocol.NewProject(projectID, toURI(project.Path()), project.Name(), project.Language())); err != nil {
		return 0, false, err
	}
	p.stats.NumProjects++

	if project.Language() != p.opts.Language {
		log.Warn("project language not supported", "language", project.Language(), "project", project.Path())
		return 0, false, nil
	}

	return projectID, true, nil
}

func (p *Pipeline) includedDocuments(project Project) []Document {
	var documents []Document
	for _, document := range project.Documents() {
		if isExcluded(p.opts.Exclude, document.Path()) {
			log.Info("skipped excluded document", "document", document.Path())
			continue
		}
		documents = append(documents, document)
	}

	return documents
}

func (p *Pipeline) progress() {
	if p.opts.PrintProgressDots {
		fmt.Fprintf(os.Stderr, ".")
	}
}
