package extractors

import (
	"github.com/custodia-labs/semantica/internal/extractors/csv"
	"github.com/custodia-labs/semantica/internal/extractors/jsondoc"
	"github.com/custodia-labs/semantica/internal/extractors/markdown"
	"github.com/custodia-labs/semantica/internal/extractors/pdf"
	"github.com/custodia-labs/semantica/internal/extractors/plaintext"
)

// RegisterDefaults registers all built-in extractors with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(csv.New())
	r.Register(jsondoc.New())
	r.Register(pdf.New())
}

// MIMETypeForSource maps a source type to the MIME type used when the
// caller does not supply one.
func MIMETypeForSource(sourceType string) string {
	switch sourceType {
	case "markdown":
		return "text/markdown"
	case "pdf":
		return "application/pdf"
	case "csv":
		return "text/csv"
	case "json", "api":
		return "application/json"
	case "web":
		return "text/html"
	default:
		return "text/plain"
	}
}
