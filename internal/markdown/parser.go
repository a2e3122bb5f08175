package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders markdown documents with an optional YAML frontmatter block.
// Raw HTML in the source is omitted from the output.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, nil, err
	}

	meta = make(map[string]any)
	data := frontmatter.Get(context)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, nil, err
		}
	}

	return buf.Bytes(), meta, nil
}

var fence = []byte("---")

// Body returns the source with a leading frontmatter block removed.
func Body(source []byte) []byte {
	rest, ok := bytes.CutPrefix(source, fence)
	if !ok {
		return source
	}
	rest = bytes.TrimLeft(rest, " \t")
	if len(rest) == 0 || (rest[0] != '\n' && rest[0] != '\r') {
		return source
	}

	end := bytes.Index(rest, append([]byte("\n"), fence...))
	if end < 0 {
		return source
	}

	body := rest[end+1+len(fence):]
	return bytes.TrimLeft(body, "\r\n")
}
