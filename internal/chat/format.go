package chat

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	// Replies only carry **bold** and newlines. Headings, lists, links and
	// single-star emphasis stay literal text.
	mdRenderer = goldmark.New(
		goldmark.WithParser(parser.NewParser(
			parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
			parser.WithInlineParsers(util.Prioritized(strongParser{}, 100)),
		)),
	)
	htmlSanitizer = bluemonday.NewPolicy().AllowElements("strong", "br")

	boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bold   = color.New(color.Bold)
)

type strongDelimiters struct{}

func (strongDelimiters) IsDelimiter(b byte) bool { return b == '*' }

func (strongDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (strongDelimiters) OnMatch(consumes int) ast.Node { return ast.NewEmphasis(consumes) }

// strongParser only opens on runs of two or more asterisks.
type strongParser struct{}

func (strongParser) Trigger() []byte { return []byte{'*'} }

func (strongParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 2, strongDelimiters{})
	if node == nil {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

// FormatHTML renders a bot reply as sanitized HTML: **bold** becomes
// <strong> and every newline becomes <br>. Raw HTML in the reply is escaped.
func FormatHTML(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = renderLine(line)
	}
	return htmlSanitizer.Sanitize(strings.Join(lines, "<br>"))
}

func renderLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(line), &buf); err != nil {
		return htmlSanitizer.Sanitize(line)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	return strings.TrimSuffix(out, "</p>")
}

// FormatTerminal renders **bold** spans with the terminal bold attribute.
func FormatTerminal(text string) string {
	return boldRe.ReplaceAllStringFunc(text, func(m string) string {
		return bold.Sprint(boldRe.FindStringSubmatch(m)[1])
	})
}
