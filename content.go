package reportgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-reportgen/internal/pipeline"
)

// DefaultPromptTemplate asks for a structured student report; %s is the title.
const DefaultPromptTemplate = "Generate a detailed and professional Micro Project Report on %s " +
	"with proper structure, suitable for engineering students. Include sections such as " +
	"Introduction, Working Principle, Methodology, Classification, Applications, Results, " +
	"Conclusion, and References."

// ValidatePrompt checks that a prompt template has exactly one %s and no other verb.
// Literal percent signs are written as %%.
func ValidatePrompt(tmpl string) error {
	rest := strings.ReplaceAll(tmpl, "%%", "")
	if strings.Count(rest, "%s") != 1 || strings.Count(rest, "%") != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidPrompt, tmpl)
	}
	return nil
}

// BuildPrompt substitutes title into a validated template.
func BuildPrompt(tmpl, title string) string {
	return fmt.Sprintf(tmpl, title)
}

// generateBlocks asks the generator for text and parses it.
// Any failure, or text with nothing but whitespace, yields the placeholder body
// and fallback=true; the error is returned for logging only.
func (c *Converter) generateBlocks(ctx context.Context, title string) (blocks []pipeline.Block, fallback bool, err error) {
	if c.generator == nil {
		return pipeline.NoContentBlocks(), true, fmt.Errorf("%w: %w", ErrGenerationUnavailable, ErrNoGenerator)
	}

	text, err := c.generator.Generate(ctx, BuildPrompt(c.cfg.prompt, title))
	if err != nil {
		return pipeline.NoContentBlocks(), true, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return pipeline.NoContentBlocks(), true, fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}
	return pipeline.Parse(text), false, nil
}
