package provider

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// PDF extracts page text with the pdftotext CLI tool. Pages arrive
// separated by form feeds; table recovery is out of scope here, so PDF
// pages carry text only.
type PDF struct {
	path    string
	binPath string
}

// NewPDF creates a PDF provider. If binPath is empty, "pdftotext" is
// used.
func NewPDF(path, binPath string) *PDF {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PDF{path: path, binPath: binPath}
}

func (p *PDF) Source() string { return p.path }

func (p *PDF) Pages(ctx context.Context) ([]model.PageText, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", p.path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "provider: pdftotext failed for %s: %s", p.path, stderr.String())
	}

	raw := strings.Split(stdout.String(), "\f")
	pages := make([]model.PageText, 0, len(raw))
	for i, text := range raw {
		text = strings.TrimRight(text, "\n")
		if i == len(raw)-1 && strings.TrimSpace(text) == "" {
			// pdftotext emits a trailing form feed.
			continue
		}
		pages = append(pages, model.PageText{
			PageNumber: i + 1,
			Text:       text,
		})
	}
	return pages, nil
}
