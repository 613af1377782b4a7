package pipeline

import "strings"

// BlockKind tags the variant held by a Block.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
)

// String returns a readable name for the kind.
func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Heading levels produced by the parser.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 3
)

// Run is a span of paragraph text sharing one style.
type Run struct {
	Text string
	Bold bool
}

// Block is one structural unit of parsed content.
// Level and Text are set for headings, Runs for paragraphs.
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
	Runs  []Run
}

// Heading creates a heading block.
func Heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph creates a paragraph block from runs, in order.
func Paragraph(runs ...Run) Block {
	return Block{Kind: KindParagraph, Runs: runs}
}

// IsHeading reports whether b is a heading.
func (b Block) IsHeading() bool { return b.Kind == KindHeading }

// IsParagraph reports whether b is a paragraph.
func (b Block) IsParagraph() bool { return b.Kind == KindParagraph }

// PlainText returns the heading text, or the concatenated run texts of a paragraph.
func (b Block) PlainText() string {
	if b.IsHeading() {
		return b.Text
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// NoContentMessage replaces the document body when no text could be generated.
const NoContentMessage = "No content available for this topic."

// NoContentBlocks returns the body used when generation produced nothing usable.
func NoContentBlocks() []Block {
	return []Block{Paragraph(Run{Text: NoContentMessage})}
}

// CountParagraphs returns the number of paragraph blocks.
func CountParagraphs(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.IsParagraph() {
			n++
		}
	}
	return n
}

// CountHeadings returns the number of heading blocks.
func CountHeadings(blocks []Block) int {
	return len(blocks) - CountParagraphs(blocks)
}

// ImageRef is a fetched image waiting to be placed.
// Index is the position of its URL among the qualifying search results.
type ImageRef struct {
	Index int
	URL   string
	Data  []byte
}
