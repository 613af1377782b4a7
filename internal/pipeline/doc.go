// Package pipeline implements the text-to-document transformation.
//
// The stages are pure or sink-driven so they can be tested without any network
// or file format:
//   - Parse turns generated text into an ordered list of Blocks
//     (headings and paragraphs made of bold/plain runs)
//   - PlanPlacement decides after which paragraphs images are inserted
//   - Assembler walks the blocks and drives a Builder (the document sink)
//
// Fetching text and images, and encoding the final file (DOCX, HTML, PDF), are
// handled by the root reportgen package and by the internal/docx and
// internal/htmldoc builders.
package pipeline
