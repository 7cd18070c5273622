package textsource

import (
	"context"
	"fmt"
)

// pdfTextResolver extracts the embedded text layer with pdftotext.
type pdfTextResolver struct {
	cfg    Config
	runner Runner
}

func (r *pdfTextResolver) Resolve(ctx context.Context, doc Document) (string, error) {
	path, cleanup, err := writeTemp(doc)
	if err != nil {
		return "", err
	}
	defer cleanup()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
