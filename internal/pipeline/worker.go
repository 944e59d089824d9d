package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/importer"
	"github.com/dgallion1/argus/internal/parser"
	"github.com/dgallion1/argus/internal/store"
)

// Worker processes a single import job.
type Worker struct {
	store       store.Store
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(st store.Store, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		store:       st,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "user_id", job.UserID)
	defer job.releaseFileData()

	// Phase 1: Import
	job.SetStatus(StatusImporting, "importing")
	imp, err := importer.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "importing")
		return
	}
	if pdf, ok := imp.(*importer.PDFImporter); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}

	doc, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "importing")
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	args := parser.Parse(doc)
	stats := argument.Summarize(args)
	job.SetCounts(stats.Arguments, stats.Lines, stats.Objections)
	log.Info("parsed document", "arguments", stats.Arguments, "lines", stats.Lines)

	if argument.IsEmpty(args) {
		log.Warn("no argument content")
		job.AddError("no argument content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	markup, err := doc.HTML()
	if err != nil {
		job.AddError(fmt.Sprintf("serialize: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	// Hashing the tagged markup matches what a workspace saves for an
	// unedited document.
	job.mu.Lock()
	job.ContentHash = store.ContentHash([]byte(markup))
	if job.Title == "" {
		job.Title = documentTitle(args, job.Filename)
	}
	job.mu.Unlock()

	// Phase 2.5: Dedup check
	existing, found, err := w.store.FindByHash(ctx, job.UserID, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if found {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.SetDuplicate(existing)
		return
	}

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	err = withRetry(ctx, log, "store document", func() error {
		return w.store.Put(ctx, store.Document{
			ID:          job.DocID,
			UserID:      job.UserID,
			Title:       job.Title,
			Filename:    job.Filename,
			HTML:        markup,
			ContentHash: job.ContentHash,
			Arguments:   stats.Arguments,
			Lines:       stats.Lines,
			CreatedAt:   job.CreatedAt,
		})
	})
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	log.Info("import complete", "title", job.Title)
	job.SetStatus(StatusCompleted, "done")
}

// documentTitle prefers the first explicit argument title over the
// filename.
func documentTitle(args []argument.Argument, filename string) string {
	for _, a := range args {
		if a.Title != argument.UntitledTitle && a.Title != "" {
			return a.Title
		}
	}
	return importer.TitleFromFilename(filename)
}
