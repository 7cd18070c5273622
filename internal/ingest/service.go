// Package ingest runs the bulk-upload pass: every document in a batch is
// resolved, extracted and persisted independently, with failures recovered
// per file and reported alongside the successes.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
	"github.com/joseph-ayodele/gazette-tracker/internal/extract"
	"github.com/joseph-ayodele/gazette-tracker/internal/repository"
	"github.com/joseph-ayodele/gazette-tracker/internal/textsource"
)

// FileFailure is the per-file note for documents that yielded no records.
type FileFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// BulkResult aggregates one batch.
type BulkResult struct {
	BatchID  uuid.UUID       `json:"batchId"`
	Count    int             `json:"count"`
	Records  []entity.Record `json:"records"`
	Failures []FileFailure   `json:"failures,omitempty"`
}

type Service struct {
	resolver  textsource.Resolver
	extractor *extract.Extractor
	repo      repository.RecordRepository
	logger    *slog.Logger

	workers int
	timeout time.Duration
}

type Option func(*Service)

func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPerDocTimeout caps how long one document may spend in resolution and
// extraction, so a corrupt file cannot stall the whole batch.
func WithPerDocTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewService(resolver textsource.Resolver, ex *extract.Extractor, repo repository.RecordRepository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		resolver:  resolver,
		extractor: ex,
		repo:      repo,
		logger:    logger,
		workers:   4,
		timeout:   3 * time.Minute,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type docOutcome struct {
	records []entity.Record
	failure *FileFailure
}

// BulkIngest processes each document concurrently up to the worker bound,
// persists every extracted record with a freshly allocated sequence number,
// and reports per-file failures without aborting the batch. Only a store
// write failure aborts the request.
func (s *Service) BulkIngest(ctx context.Context, docs []textsource.Document) (BulkResult, error) {
	if len(docs) == 0 {
		return BulkResult{}, common.NewAppError("NO_FILES", "no PDF files uploaded", common.ErrInvalidInput)
	}

	batchID := uuid.New()
	s.logger.Info("bulk ingest started", "batch_id", batchID, "files", len(docs))

	outcomes := make([]docOutcome, len(docs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(docs) {
		workers = len(docs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.processDocument(ctx, docs[i])
			}
		}()
	}
	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := BulkResult{BatchID: batchID}
	for _, out := range outcomes {
		if out.failure != nil {
			result.Failures = append(result.Failures, *out.failure)
			continue
		}
		for _, rec := range out.records {
			created, err := s.repo.Create(ctx, rec)
			if err != nil {
				// PersistenceError: surface, never silently continue numbering.
				s.logger.Error("bulk ingest persist failed",
					"batch_id", batchID, "cause_no", rec.CauseNo, "error", err)
				return BulkResult{}, err
			}
			result.Records = append(result.Records, created)
		}
	}
	result.Count = len(result.Records)

	s.logger.Info("bulk ingest finished",
		"batch_id", batchID,
		"created", result.Count,
		"failed_files", len(result.Failures),
	)
	return result, nil
}

// processDocument resolves and extracts one document. Any failure here is
// local to the file: the batch continues.
func (s *Service) processDocument(ctx context.Context, doc textsource.Document) docOutcome {
	dctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.resolver.Resolve(dctx, doc)
	if err != nil {
		reason := "failed to extract text"
		if errors.Is(err, common.ErrNoText) {
			reason = "no usable text in document"
		}
		s.logger.Warn("document skipped", "file", doc.Name, "error", err)
		return docOutcome{failure: &FileFailure{File: doc.Name, Reason: reason}}
	}

	records := s.extractor.Extract(text, doc.Name)
	if len(records) == 0 {
		return docOutcome{failure: &FileFailure{
			File:   doc.Name,
			Reason: fmt.Sprintf("no valid case blocks found in %s", doc.Name),
		}}
	}
	return docOutcome{records: records}
}
