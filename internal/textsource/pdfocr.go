package textsource

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// pdfOCRResolver rasterizes pages with pdftoppm and recognizes them with
// tesseract. Used only when the embedded text layer is empty.
type pdfOCRResolver struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func (r *pdfOCRResolver) Resolve(ctx context.Context, doc Document) (string, error) {
	path, cleanup, err := writeTemp(doc)
	if err != nil {
		return "", err
	}
	defer cleanup()

	prefix := filepath.Join(filepath.Dir(path), "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := r.tesseractOCR(ctx, img)
		if err != nil {
			r.logger.Warn("ocr page failed", "file", doc.Name, "page", img, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

func (r *pdfOCRResolver) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, path, "stdout", "-l", r.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
