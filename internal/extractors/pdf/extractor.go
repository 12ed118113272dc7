// Package pdf provides the extractor for PDF content.
//
// Text extraction shells out to the pdftotext binary (poppler-utils). The
// command invocation is behind a small CommandRunner interface so tests can
// substitute a mock.
package pdf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF bytes to text via pdftotext.
type Extractor struct {
	runner CommandRunner
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner replaces the command runner. Used in tests.
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) { e.runner = r }
}

// New creates a new PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{runner: execRunner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract writes the bytes to a temp file, runs pdftotext and hashes the
// resulting text.
func (e *Extractor) Extract(ctx context.Context, raw *driven.RawContent) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	tmpDir, err := os.MkdirTemp("", "semantica-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpFile := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(tmpFile, raw.Data, 0600); err != nil {
		return nil, fmt.Errorf("writing temp pdf: %w", err)
	}

	// "-" sends the extracted text to stdout.
	output, err := e.runner.Run(ctx, "pdftotext", "-layout", tmpFile, "-")
	if err != nil {
		return nil, fmt.Errorf("running pdftotext: %w", err)
	}

	text := strings.TrimSpace(string(output))
	sum := sha256.Sum256([]byte(text))

	return &driven.ExtractResult{
		Text:        text,
		ContentHash: hex.EncodeToString(sum[:]),
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"uri":       raw.URI,
			"format":    "pdf",
		},
	}, nil
}
