package report

import "sort"

// TextSpan represents a range or "span" of source text. Spans are measured in
// byte offsets into the source: Start is the offset of the first byte in the
// span and End is the offset one past the last byte.
type TextSpan struct {
	Start, End int
}

// NewSpan returns a new span over the bytes [start, end).
func NewSpan(start, end int) *TextSpan {
	return &TextSpan{Start: start, End: end}
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{Start: start.Start, End: end.End}
}

// Len returns the number of bytes covered by the span.
func (ts *TextSpan) Len() int {
	return ts.End - ts.Start
}

// -----------------------------------------------------------------------------

// Source is a named piece of lqd source text.  All spans produced by the
// compiler refer back into the text of a source: nothing downstream of the
// lexer copies source text.
type Source struct {
	// Name is the representative path of the source (used in diagnostics).
	Name string

	// Text is the full source text.
	Text string

	// lineStarts is the byte offset of the beginning of each line.
	lineStarts []int
}

// NewSource creates a new source and indexes its line starts.
func NewSource(name, text string) *Source {
	src := &Source{Name: name, Text: text, lineStarts: []int{0}}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			src.lineStarts = append(src.lineStarts, i+1)
		}
	}

	return src
}

// Position is a zero-indexed line and column pair.
type Position struct {
	Line, Col int
}

// Position converts a byte offset into a line and column.  Offsets past the
// end of the text are clamped to the end.
func (s *Source) Position(offset int) Position {
	if offset > len(s.Text) {
		offset = len(s.Text)
	} else if offset < 0 {
		offset = 0
	}

	// the index of the first line starting after offset, minus one
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1

	return Position{Line: line, Col: offset - s.lineStarts[line]}
}

// Line returns the text of the given zero-indexed line without its line break.
func (s *Source) Line(n int) string {
	if n < 0 || n >= len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[n]
	end := len(s.Text)
	if n+1 < len(s.lineStarts) {
		end = s.lineStarts[n+1]
	}

	line := s.Text[start:end]
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}

	return line
}

// Slice returns the text covered by a span.
func (s *Source) Slice(span *TextSpan) string {
	start, end := span.Start, span.End
	if end > len(s.Text) {
		end = len(s.Text)
	}
	if start > end {
		start = end
	}

	return s.Text[start:end]
}
