package pipeline

import "strings"

// Line prefixes recognized by the parser, checked in this order.
// "* " is treated as a level-3 heading, not a list item.
const (
	prefixHeading1 = "## "
	prefixHeading2 = "### "
	prefixHeading3 = "* "
)

// boldDelimiter toggles bold inside a paragraph line.
const boldDelimiter = "**"

// Parse splits generated text into blocks, one per input line.
// Empty input yields no blocks; an empty line yields a paragraph with one empty run.
func Parse(text string) []Block {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, parseLine(strings.TrimSpace(line)))
	}
	return blocks
}

// parseLine classifies a single trimmed line.
func parseLine(line string) Block {
	switch {
	case strings.HasPrefix(line, prefixHeading1):
		return Heading(1, line[len(prefixHeading1):])
	case strings.HasPrefix(line, prefixHeading2):
		return Heading(2, line[len(prefixHeading2):])
	case strings.HasPrefix(line, prefixHeading3):
		return Heading(3, line[len(prefixHeading3):])
	default:
		return Paragraph(splitRuns(line)...)
	}
}

// splitRuns splits a line on "**". Odd segments are bold.
// Empty segments are kept so the run count always matches the segment count.
func splitRuns(line string) []Run {
	parts := strings.Split(line, boldDelimiter)
	runs := make([]Run, len(parts))
	for i, part := range parts {
		runs[i] = Run{Text: part, Bold: i%2 == 1}
	}
	return runs
}
