package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docmodel/internal/chunker"
	"github.com/dgallion1/docmodel/internal/doctree"
	"github.com/dgallion1/docmodel/internal/indexstore"
	"github.com/dgallion1/docmodel/internal/parser"
	"github.com/dgallion1/docmodel/internal/stats"
	"github.com/dgallion1/docmodel/internal/view"
	"golang.org/x/time/rate"
)

// WorkerConfig holds the per-worker settings.
type WorkerConfig struct {
	Chunk                chunker.Config
	MaxConcurrentPublish int
	PDFFallback          bool
}

// Worker processes a single document job.
type Worker struct {
	index   *indexstore.Client
	limiter *rate.Limiter
	latency *stats.Latency
	log     *slog.Logger
	cfg     WorkerConfig
}

// NewWorker returns a worker. A nil index skips publishing; a nil limiter
// leaves index writes unthrottled.
func NewWorker(index *indexstore.Client, limiter *rate.Limiter, latency *stats.Latency, log *slog.Logger, cfg WorkerConfig) *Worker {
	if cfg.MaxConcurrentPublish <= 0 {
		cfg.MaxConcurrentPublish = 1
	}
	return &Worker{
		index:   index,
		limiter: limiter,
		latency: latency,
		log:     log,
		cfg:     cfg,
	}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.parse(job)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	// Phase 2: References. Problems are recorded but do not stop the job.
	job.SetStatus(StatusReferencing, "assigning references")
	doctree.AssignReferences(doc)
	if err := doctree.ValidateReferences(doc); err != nil {
		for _, e := range unjoin(err) {
			log.Warn("reference problem", "error", e)
			job.AddWarning(e.Error())
		}
	}

	job.SetContentHash(ContentHashHex([]byte(doctree.CollectText(doc))))
	job.SetCounts(
		len(doctree.Sections(doc)),
		len(doctree.Figures(doc)),
		len(doctree.Tables(doc)),
		len(doctree.WebLinks(doc)),
	)
	toc := doctree.BuildTOC(doc)

	// Phase 3: Chunk
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.ChunkDocument(doc, w.cfg.Chunk)
	job.SetTotalChunks(len(chunks))
	job.SetAnalysis(&Analysis{Document: doc, TOC: toc, Chunks: chunks})
	log.Info("analysed document", "chunks", len(chunks), "sections", job.Snapshot().Progress.Sections)
	if len(chunks) == 0 {
		job.AddWarning("no text content")
	}

	if w.index == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3.5: Dedup check
	snap := job.Snapshot()
	exists, existingDocID, err := w.checkDuplicate(ctx, snap.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if exists && existingDocID != job.DocID {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 4: Publish
	job.SetStatus(StatusPublishing, "publishing")
	published, hadErrors := w.publish(ctx, log, job, doc, toc, chunks)

	switch {
	case hadErrors && published > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "publishing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) parse(job *Job) (*doctree.Document, error) {
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.cfg.PDFFallback
	}

	start := time.Now()
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		return nil, err
	}
	if w.latency != nil {
		w.latency.Record(formatOf(job.Filename), time.Since(start))
	}
	return doc, nil
}

// write is one node put to the index.
type write struct {
	key   string
	req   indexstore.NodeRequest
	chunk bool
}

// publish writes the document to the index and returns how many nodes
// were stored and whether anything failed.
func (w *Worker) publish(ctx context.Context, log *slog.Logger, job *Job, doc *doctree.Document, toc *doctree.OrderedList, chunks []chunker.Chunk) (int, bool) {
	source := "docmodel:" + job.DocID
	snap := job.Snapshot()

	writes := []write{{
		key: indexstore.OutlineKey(job.DocID),
		req: indexstore.NodeRequest{Value: view.TOC(toc), Kind: "outline", Salience: 0.3, Source: source},
	}}
	for _, s := range doctree.Sections(doc) {
		if s.Reference == "" {
			continue
		}
		title := ""
		if s.Title != nil {
			title = strings.TrimSpace(doctree.CollectText(s.Title))
		}
		writes = append(writes, write{
			key: indexstore.SectionKey(job.DocID, s.Reference),
			req: indexstore.NodeRequest{
				Value:    map[string]any{"title": title, "reference": s.Reference},
				Kind:     "section",
				Salience: 0.2,
				Source:   source,
			},
		})
	}
	for _, c := range chunks {
		writes = append(writes, write{
			key:   indexstore.ChunkKey(job.DocID, c.Index),
			req:   indexstore.NodeRequest{Value: c, Kind: "chunk", Salience: 0.5, Source: source},
			chunk: true,
		})
	}

	var (
		mu        sync.Mutex
		published int
		failed    int
		wg        sync.WaitGroup
	)
	sem := make(chan struct{}, w.cfg.MaxConcurrentPublish)
	for _, wr := range writes {
		sem <- struct{}{}
		wg.Add(1)
		go func(wr write) {
			defer wg.Done()
			defer func() { <-sem }()
			err := w.put(ctx, log, wr.key, wr.req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("publish failed", "key", wr.key, "error", err)
				job.AddError(fmt.Sprintf("publish %s: %s", wr.key, err))
				failed++
				return
			}
			published++
			if wr.chunk {
				job.IncrChunksPublished()
			}
		}(wr)
	}
	wg.Wait()

	for _, l := range sectionLinks(job.DocID, doc) {
		err := withRetry(ctx, func() error {
			if err := w.wait(ctx); err != nil {
				return err
			}
			return w.index.PutLink(ctx, l)
		}, nil)
		if err != nil {
			log.Warn("link write failed", "from", l.From, "to", l.To, "error", err)
			job.AddWarning(fmt.Sprintf("link %s -> %s: %s", l.From, l.To, err))
		}
	}

	// Write document metadata.
	metaErr := w.put(ctx, log, indexstore.MetaKey(job.DocID), indexstore.NodeRequest{
		Value: map[string]any{
			"filename":     job.Filename,
			"title":        doc.Title,
			"language":     doc.Language,
			"content_hash": snap.ContentHash,
			"summary":      view.Summarize(doc),
			"total_chunks": len(chunks),
			"created_at":   job.CreatedAt.Format(time.RFC3339),
		},
		Kind:     "meta",
		Salience: 0.5,
		Source:   source,
	})
	if metaErr != nil {
		log.Error("meta write failed", "error", metaErr)
		job.AddError(fmt.Sprintf("meta: %s", metaErr))
		failed++
	}

	// Write hash index for dedup.
	hashErr := w.put(ctx, log, indexstore.HashKey(snap.ContentHash, job.DocID), indexstore.NodeRequest{
		Value: map[string]any{
			"filename":   job.Filename,
			"created_at": job.CreatedAt.Format(time.RFC3339),
		},
		Kind:     "hash",
		Salience: 0.1,
		Source:   source,
	})
	if hashErr != nil {
		log.Error("hash index write failed", "error", hashErr)
	}

	log.Info("publish complete", "published", published, "failed", failed, "chunks", len(chunks))
	return published, failed > 0
}

// put writes one node, waiting on the rate limiter and retrying transient
// failures.
func (w *Worker) put(ctx context.Context, log *slog.Logger, key string, req indexstore.NodeRequest) error {
	return withRetry(ctx, func() error {
		if err := w.wait(ctx); err != nil {
			return err
		}
		return w.index.PutNode(ctx, key, req)
	}, func(attempt int, err error) {
		log.Warn("retryable publish error", "key", key, "attempt", attempt, "error", err)
	})
}

func (w *Worker) wait(ctx context.Context) error {
	if w.limiter == nil {
		return nil
	}
	return w.limiter.Wait(ctx)
}

// checkDuplicate checks if this content hash has already been published.
func (w *Worker) checkDuplicate(ctx context.Context, hash string) (bool, string, error) {
	children, err := w.index.ListChildren(ctx, indexstore.HashPrefix(hash), 1)
	if err != nil {
		return false, "", err
	}
	if len(children) > 0 {
		return true, indexstore.DecodeSegment(path.Base(children[0].Key)), nil
	}
	return false, "", nil
}

// sectionLinks returns one edge per distinct pair of (enclosing section,
// target section) for the internal links in doc, weighted by how often the
// pair occurs. Links outside any section start at the document key.
func sectionLinks(docID string, doc *doctree.Document) []indexstore.LinkRequest {
	type pair struct{ from, to string }
	counts := make(map[pair]int)
	var order []pair

	var visit func(e doctree.Element, from string)
	visit = func(e doctree.Element, from string) {
		switch n := e.(type) {
		case *doctree.Section:
			from = n.Reference
		case *doctree.InternalLink:
			if n.SectionReference != "" {
				p := pair{from, n.SectionReference}
				if counts[p] == 0 {
					order = append(order, p)
				}
				counts[p]++
			}
		}
		for _, c := range doctree.Children(e) {
			visit(c, from)
		}
	}
	visit(doc, "")

	out := make([]indexstore.LinkRequest, 0, len(order))
	for _, p := range order {
		from := indexstore.DocumentKey(docID)
		if p.from != "" {
			from = indexstore.SectionKey(docID, p.from)
		}
		out = append(out, indexstore.LinkRequest{
			From:   from,
			To:     indexstore.SectionKey(docID, p.to),
			Weight: float64(counts[p]),
		})
	}
	return out
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}

// formatOf names the latency series for a file: its lowercased extension
// without the dot.
func formatOf(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
