// Package verify runs the reconciliation pass: one spreadsheet against one
// gazette document, producing the three-way match partition. Nothing here
// mutates persisted records; the partition is response-scoped.
package verify

import (
	"context"
	"io"
	"log/slog"

	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
	"github.com/joseph-ayodele/gazette-tracker/internal/extract"
	"github.com/joseph-ayodele/gazette-tracker/internal/reconcile"
	"github.com/joseph-ayodele/gazette-tracker/internal/sheet"
	"github.com/joseph-ayodele/gazette-tracker/internal/textsource"
)

// Stats summarizes a partition for the response payload.
type Stats struct {
	Matched   int `json:"matched"`
	OnlyExcel int `json:"onlyExcel"`
	OnlyPdf   int `json:"onlyPdf"`
}

type Result struct {
	Partition entity.MatchPartition
	Stats     Stats
}

type Service struct {
	resolver  textsource.Resolver
	extractor *extract.Extractor
	engine    *reconcile.Engine
	logger    *slog.Logger
}

func NewService(resolver textsource.Resolver, ex *extract.Extractor, engine *reconcile.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{resolver: resolver, extractor: ex, engine: engine, logger: logger}
}

// Verify normalizes the spreadsheet, extracts the document, derives the
// gazette header date, and reconciles the two record sets.
func (s *Service) Verify(ctx context.Context, sheetFile io.Reader, doc textsource.Document) (Result, error) {
	sheetRows, err := sheet.Normalize(sheetFile)
	if err != nil {
		return Result{}, err
	}

	text, err := s.resolver.Resolve(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	datePublished := extract.HeaderDate(text)
	docRecords := s.extractor.Extract(text, doc.Name)

	partition := s.engine.Reconcile(sheetRows, docRecords, datePublished)
	s.logger.Info("verification completed",
		"file", doc.Name,
		"matched", len(partition.Matched),
		"only_excel", len(partition.OnlySpreadsheet),
		"only_pdf", len(partition.OnlyDocument),
	)
	return Result{
		Partition: partition,
		Stats: Stats{
			Matched:   len(partition.Matched),
			OnlyExcel: len(partition.OnlySpreadsheet),
			OnlyPdf:   len(partition.OnlyDocument),
		},
	}, nil
}
