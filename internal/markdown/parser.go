package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

var ErrNoFrontmatter = errors.New("missing front matter")

// NoteMeta is the front matter of a note sidecar file used by bulk import.
type NoteMeta struct {
	Title   string `yaml:"title"`
	Class   string `yaml:"class"`
	Subject string `yaml:"subject"`
	Topic   string `yaml:"topic"`
}

type Parser struct {
	md goldmark.Markdown
}

// NewParser renders untrusted note descriptions. Raw HTML in the source is
// escaped since goldmark's unsafe mode stays off.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
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

// Render converts a markdown description to HTML. Blank input renders to "".
func (p *Parser) Render(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	err := p.md.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseSidecar reads a sidecar file: YAML front matter with the note fields
// followed by the markdown description, returned verbatim.
func (p *Parser) ParseSidecar(source []byte) (*NoteMeta, string, error) {
	context := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(context))

	data := frontmatter.Get(context)
	if data == nil {
		return nil, "", ErrNoFrontmatter
	}

	meta := &NoteMeta{}
	err := data.Decode(meta)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode front matter: %w", err)
	}

	return meta, stripFrontmatter(string(source)), nil
}

// stripFrontmatter drops a leading "---" delimited block.
func stripFrontmatter(source string) string {
	source = strings.TrimPrefix(source, "\ufeff")
	rest, ok := strings.CutPrefix(source, "---")
	if !ok {
		return strings.TrimSpace(source)
	}
	for line := range strings.Lines(rest) {
		rest = rest[len(line):]
		if strings.TrimSpace(line) == "---" {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
