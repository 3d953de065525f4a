package fence

// FallbackExtension labels code whose language is empty or unknown.
const FallbackExtension = "txt"

var builtinExtensions = map[string]string{
	"python":     "py",
	"go":         "go",
	"javascript": "js",
	"typescript": "ts",
	"bash":       "sh",
	"shell":      "sh",
	"rust":       "rs",
	"ruby":       "rb",
	"java":       "java",
	"c":          "c",
	"cpp":        "cpp",
	"json":       "json",
	"yaml":       "yml",
	"html":       "html",
	"css":        "css",
	"sql":        "sql",
	"markdown":   "md",
}

// Extensions maps language tags to the short label used in artifact names.
// The zero value maps everything to [FallbackExtension]. An Extensions value
// is never modified once built.
type Extensions struct {
	labels   map[string]string
	fallback string
}

// DefaultExtensions returns the built-in mapping.
func DefaultExtensions() Extensions {
	return NewExtensions(builtinExtensions, FallbackExtension)
}

// NewExtensions builds a mapping from a copy of labels.
func NewExtensions(labels map[string]string, fallback string) Extensions {
	copied := make(map[string]string, len(labels))
	for lang, label := range labels {
		copied[lang] = label
	}

	if len(fallback) == 0 {
		fallback = FallbackExtension
	}

	return Extensions{labels: copied, fallback: fallback}
}

// With returns a new mapping with overrides applied on top of e.
func (e Extensions) With(overrides map[string]string) Extensions {
	merged := make(map[string]string, len(e.labels)+len(overrides))
	for lang, label := range e.labels {
		merged[lang] = label
	}

	for lang, label := range overrides {
		merged[lang] = label
	}

	return NewExtensions(merged, e.fallback)
}

// Label returns the label for lang, or the fallback when lang is unknown.
func (e Extensions) Label(lang string) string {
	if label, ok := e.labels[lang]; ok && len(label) != 0 {
		return label
	}

	if len(e.fallback) == 0 {
		return FallbackExtension
	}

	return e.fallback
}
