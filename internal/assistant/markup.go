package assistant

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	tagPolicy      = bluemonday.StrictPolicy()
	markdownParser = goldmark.New()
)

// PlainText removes HTML tags and Markdown syntax from model output. Emphasis,
// headers and link syntax are dropped; list items keep a "1. " or "- " marker.
func PlainText(raw string) string {
	cleaned := html.UnescapeString(tagPolicy.Sanitize(raw))
	source := []byte(cleaned)
	doc := markdownParser.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	writeBlocks(&sb, source, doc)

	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func writeBlocks(sb *strings.Builder, source []byte, parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.List:
			writeList(sb, source, node)
		case *ast.Blockquote:
			writeBlocks(sb, source, node)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			ensureNewline(sb)
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			var inline strings.Builder
			writeInline(&inline, source, n)
			if s := strings.TrimSpace(inline.String()); s != "" {
				sb.WriteString(s)
				sb.WriteByte('\n')
			}
		}
	}
}

func writeList(sb *strings.Builder, source []byte, list *ast.List) {
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		var inner strings.Builder
		writeBlocks(&inner, source, item)
		body := strings.TrimSpace(inner.String())
		sb.WriteString(marker)
		sb.WriteString(strings.ReplaceAll(body, "\n", "\n   "))
		sb.WriteByte('\n')
	}
}

func writeInline(sb *strings.Builder, source []byte, parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(source))
		case *ast.RawHTML:
		default:
			writeInline(sb, source, n)
		}
	}
}

func ensureNewline(sb *strings.Builder) {
	if s := sb.String(); s != "" && !strings.HasSuffix(s, "\n") {
		sb.WriteByte('\n')
	}
}
