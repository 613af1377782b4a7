// Package docx writes Office Open XML word-processing documents.
//
// Builder implements pipeline.Builder: the assembler streams a title, headings,
// paragraphs, runs and inline images into it, and Finalize packages everything
// into a .docx archive in memory.
//
// Only the parts a report needs are produced: document, styles, core properties,
// relationships, content types and media.
package docx
