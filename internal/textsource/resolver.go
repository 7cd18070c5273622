// Package textsource turns raw gazette document bytes into plain text.
//
// Resolution is a two-stage fallback chain: embedded-text extraction via
// pdftotext first, then rasterize-and-OCR via pdftoppm + tesseract when the
// document has no usable text layer. Additional resolvers can be appended to
// the chain without touching callers.
package textsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/common"
)

// Document is an already-materialized upload: bytes plus declared type.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Resolver produces plain text for a document. An empty or whitespace-only
// result means "nothing usable here, try the next resolver".
type Resolver interface {
	Resolve(ctx context.Context, doc Document) (string, error)
}

// Config mirrors the external tool setup.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit
}

func (cfg *Config) defaults() {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
}

// Chain tries each resolver in order and returns the first non-whitespace
// normalized text. All resolvers exhausted means common.ErrNoText: the
// document contributes zero records and the batch moves on.
type Chain struct {
	resolvers []Resolver
	logger    *slog.Logger
}

// NewChain builds the default embedded-text -> OCR chain.
func NewChain(cfg Config, logger *slog.Logger) *Chain {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	r := execRunner{}
	return &Chain{
		resolvers: []Resolver{
			&pdfTextResolver{cfg: cfg, runner: r},
			&pdfOCRResolver{cfg: cfg, runner: r, logger: logger},
		},
		logger: logger,
	}
}

// NewChainWith builds a chain from explicit resolvers, in precedence order.
func NewChainWith(logger *slog.Logger, resolvers ...Resolver) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{resolvers: resolvers, logger: logger}
}

// Resolve returns normalized text, or common.ErrNoText when no resolver
// produced anything beyond whitespace.
func (c *Chain) Resolve(ctx context.Context, doc Document) (string, error) {
	if !constants.IsPDFContentType(doc.ContentType) {
		return "", common.NewAppError("UNSUPPORTED_TYPE",
			fmt.Sprintf("unsupported content type %q for %s", doc.ContentType, doc.Name),
			common.ErrInvalidInput)
	}
	for i, r := range c.resolvers {
		txt, err := r.Resolve(ctx, doc)
		if err != nil {
			c.logger.Warn("resolver failed", "file", doc.Name, "stage", i, "error", err)
			continue
		}
		if strings.TrimSpace(txt) != "" {
			return Normalize(txt), nil
		}
		c.logger.Info("resolver returned no text, falling through", "file", doc.Name, "stage", i)
	}
	return "", fmt.Errorf("%s: %w", doc.Name, common.ErrNoText)
}

// Normalize collapses line breaks to single spaces and runs of two or more
// whitespace characters to one space. The extraction rules are
// single-line-oriented, so this must run before segmentation. Idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case '\r', '\n', '\t', ' ', '\f', '\v':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeTemp materializes document bytes for tools that only accept paths.
func writeTemp(doc Document) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "gz-doc-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	path := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
