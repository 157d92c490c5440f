package postprocessors

import (
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/postprocessors/minlength"
	"github.com/custodia-labs/qabench/internal/postprocessors/paragraphs"
)

// DefaultStages is the passage pipeline used by benchmark runs:
// paragraph splitting followed by dropping fragments.
var DefaultStages = []Stage{
	{Name: "paragraphs"},
	{Name: "min_length"},
}

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("paragraphs", buildParagraphs)
	r.Register("min_length", buildMinLength)
}

// DefaultPipeline builds the DefaultStages pipeline from the built-in processors.
func DefaultPipeline() *Pipeline {
	r := NewRegistry()
	RegisterDefaults(r)
	p, err := r.BuildPipeline(DefaultStages...)
	if err != nil {
		// Built-in stages are always registered.
		panic(err)
	}
	return p
}

// buildParagraphs creates a paragraph splitter.
// Supported config keys:
//   - max_chars (int): Paragraphs longer than this are split on sentences (default: no limit)
func buildParagraphs(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []paragraphs.Option
	if size := getIntFromConfig(cfg, "max_chars"); size > 0 {
		opts = append(opts, paragraphs.WithMaxChars(size))
	}
	return paragraphs.New(opts...), nil
}

// buildMinLength creates a short-passage filter.
// Supported config keys:
//   - min_chars (int): Minimum passage length in characters (default: 30)
func buildMinLength(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []minlength.Option
	if n := getIntFromConfig(cfg, "min_chars"); n > 0 {
		opts = append(opts, minlength.WithMinChars(n))
	}
	return minlength.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
