package markdown

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^md-[a-z0-9-]+$`)).OnElements("h1", "h2", "h3", "h4", "p", "ul", "ol", "li", "blockquote", "strong", "code", "br")
	return p
}

// HTML renders blocks as sanitized HTML. Consecutive list items share one list element.
func HTML(blocks []Block) template.HTML {
	var sb strings.Builder
	var openList BlockKind

	closeList := func() {
		switch openList {
		case KindBullet:
			sb.WriteString("</ul>\n")
		case KindOrdered:
			sb.WriteString("</ol>\n")
		}
		openList = ""
	}

	for _, b := range blocks {
		if openList != "" && b.Kind != openList {
			closeList()
		}
		switch b.Kind {
		case KindHeading:
			fmt.Fprintf(&sb, "<h%d class=\"md-h%d\">%s</h%d>\n", b.Level, b.Level, html.EscapeString(b.Text), b.Level)
		case KindBullet, KindOrdered:
			if openList == "" {
				if b.Kind == KindBullet {
					sb.WriteString("<ul class=\"md-list\">\n")
				} else {
					sb.WriteString("<ol class=\"md-list\">\n")
				}
				openList = b.Kind
			}
			fmt.Fprintf(&sb, "<li class=\"md-item\">%s</li>\n", renderSpans(b.Spans))
		case KindQuote:
			fmt.Fprintf(&sb, "<blockquote class=\"md-quote\">%s</blockquote>\n", renderSpans(b.Spans))
		case KindBreak:
			sb.WriteString("<br/>\n")
		default:
			fmt.Fprintf(&sb, "<p class=\"md-p\">%s</p>\n", renderSpans(b.Spans))
		}
	}
	closeList()

	return template.HTML(policy.Sanitize(sb.String())) //nolint:gosec // sanitized by bluemonday
}

// Render parses and renders markdown source in one step
func Render(src string) template.HTML {
	return HTML(Parse(src))
}

func renderSpans(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case SpanBold:
			sb.WriteString("<strong class=\"md-strong\">" + html.EscapeString(s.Text) + "</strong>")
		case SpanCode:
			sb.WriteString("<code class=\"md-code\">" + html.EscapeString(s.Text) + "</code>")
		default:
			sb.WriteString(html.EscapeString(s.Text))
		}
	}
	return sb.String()
}
