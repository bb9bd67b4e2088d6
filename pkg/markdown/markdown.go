// Package markdown converts the analysis documents into display blocks.
// It is a line-oriented converter for the document shape the model is asked to produce,
// not a general markdown engine: no nesting, no inline markup inside headings.
package markdown

import (
	"regexp"
	"strings"
)

// BlockKind is the kind of one rendered line
type BlockKind string

// block kinds, in matching precedence
const (
	KindHeading   BlockKind = "heading"
	KindBullet    BlockKind = "bullet"
	KindOrdered   BlockKind = "ordered"
	KindQuote     BlockKind = "quote"
	KindBreak     BlockKind = "break"
	KindParagraph BlockKind = "paragraph"
)

// SpanKind is the kind of an inline fragment
type SpanKind string

// inline span kinds
const (
	SpanText SpanKind = "text"
	SpanBold SpanKind = "bold"
	SpanCode SpanKind = "code"
)

// Span is an inline fragment of a line
type Span struct {
	Kind SpanKind
	Text string
}

// Block is one source line converted for display.
// Headings keep raw Text, other kinds except breaks carry Spans.
type Block struct {
	Kind  BlockKind
	Level int // heading level 1-4
	Text  string
	Spans []Span
}

var (
	orderedRe = regexp.MustCompile(`^\d+\. `)
	inlineRe  = regexp.MustCompile("\\*\\*(.+?)\\*\\*|`([^`]+)`")
)

var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"# ", 1}, {"## ", 2}, {"### ", 3}, {"#### ", 4},
}

// Parse converts markdown source into blocks, one block per line
func Parse(src string) []Block {
	if src == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	res := make([]Block, 0, len(lines))
	for _, line := range lines {
		res = append(res, parseLine(line))
	}
	return res
}

func parseLine(line string) Block {
	for _, h := range headingPrefixes {
		if strings.HasPrefix(line, h.prefix) {
			return Block{Kind: KindHeading, Level: h.level, Text: strings.TrimPrefix(line, h.prefix)}
		}
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "- "):
		text := strings.TrimPrefix(trimmed, "- ")
		return Block{Kind: KindBullet, Text: text, Spans: parseInline(text)}
	case orderedRe.MatchString(trimmed):
		text := orderedRe.ReplaceAllString(trimmed, "")
		return Block{Kind: KindOrdered, Text: text, Spans: parseInline(text)}
	case strings.HasPrefix(trimmed, "> "):
		text := strings.TrimPrefix(trimmed, "> ")
		return Block{Kind: KindQuote, Text: text, Spans: parseInline(text)}
	case trimmed == "":
		return Block{Kind: KindBreak}
	default:
		return Block{Kind: KindParagraph, Text: line, Spans: parseInline(line)}
	}
}

// parseInline splits a line into text, bold and code spans in a single pass
func parseInline(s string) []Span {
	var res []Span
	last := 0
	for _, m := range inlineRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			res = append(res, Span{Kind: SpanText, Text: s[last:m[0]]})
		}
		if m[2] >= 0 {
			res = append(res, Span{Kind: SpanBold, Text: s[m[2]:m[3]]})
		} else {
			res = append(res, Span{Kind: SpanCode, Text: s[m[4]:m[5]]})
		}
		last = m[1]
	}
	if last < len(s) {
		res = append(res, Span{Kind: SpanText, Text: s[last:]})
	}
	return res
}
