// Package htmltomarkdown renders sanitized HTML fragments to Markdown
// with html-to-markdown, extended by per-element rewrite rules.
package htmltomarkdown

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/mdclip"
	"golang.org/x/net/html"
)

// Ensure Converter implements mdclip.Converter at compile time.
var _ mdclip.Converter = (*Converter)(nil)

// Heading styles.
const (
	HeadingStyleATX    = "atx"
	HeadingStyleSetext = "setext"
)

// Rule rewrites one element type. Render returns
// converter.RenderTryNext to leave the element to the default renderers.
type Rule struct {
	Name   string
	Tag    string
	Inline bool
	Render converter.HandleRenderFunc
}

// Option configures a Converter.
type Option func(*config)

type config struct {
	headingStyle string
	codeFence    string
	rules        []Rule
}

// WithHeadingStyle selects "atx" (# Heading) or "setext" (underlined) headings.
func WithHeadingStyle(style string) Option {
	return func(c *config) {
		c.headingStyle = style
	}
}

// WithCodeFence sets the fence used for code blocks, "```" or "~~~".
func WithCodeFence(fence string) Option {
	return func(c *config) {
		c.codeFence = fence
	}
}

// WithRule registers a rewrite rule ahead of the default renderers.
func WithRule(rule Rule) Option {
	return func(c *config) {
		c.rules = append(c.rules, rule)
	}
}

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with ATX headings, backtick fences and
// the figure rule. Options replace the defaults or add rules.
func NewConverter(opts ...Option) *Converter {
	cfg := &config{
		headingStyle: HeadingStyleATX,
		codeFence:    "```",
		rules:        []Rule{FigureRule()},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	headingStyle := commonmark.HeadingStyleATX
	if cfg.headingStyle == HeadingStyleSetext {
		headingStyle = commonmark.HeadingStyleSetext
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(headingStyle),
				commonmark.WithCodeBlockFence(cfg.codeFence),
			),
			table.NewTablePlugin(),
			strikethrough.NewStrikethroughPlugin(),
		),
	)
	for _, rule := range cfg.rules {
		tagType := converter.TagTypeBlock
		if rule.Inline {
			tagType = converter.TagTypeInline
		}
		conv.Register.RendererFor(rule.Tag, tagType, rule.Render, converter.PriorityEarly)
	}
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", mdclip.Errorf(mdclip.EINVALID, "empty HTML input")
	}

	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}

	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", err
	}

	return result, nil
}

var altEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

// FigureRule renders a figure holding an image as an image line followed
// by its caption. Figures without an image are left to the default
// renderers.
func FigureRule() Rule {
	return Rule{
		Name:   "figure",
		Tag:    "figure",
		Render: renderFigure,
	}
}

func renderFigure(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	img := dom.FindFirstNode(n, func(c *html.Node) bool {
		return dom.NodeName(c) == "img"
	})
	if img == nil {
		return converter.RenderTryNext
	}
	// An empty src still renders as ![alt]() so the caption keeps its image line.
	src := strings.TrimSpace(dom.GetAttributeOr(img, "src", ""))
	if src != "" {
		src = ctx.AssembleAbsoluteURL(ctx, "img", src)
	}
	alt := strings.Join(strings.Fields(dom.GetAttributeOr(img, "alt", "")), " ")

	var caption string
	if figcaption := dom.FindFirstNode(n, func(c *html.Node) bool {
		return dom.NodeName(c) == "figcaption"
	}); figcaption != nil {
		var buf bytes.Buffer
		ctx.RenderChildNodes(ctx, &buf, figcaption)
		caption = strings.Join(strings.Fields(buf.String()), " ")
	}

	w.WriteString("\n\n")
	w.WriteString("![" + altEscaper.Replace(alt) + "](" + src + ")\n")
	if caption != "" {
		w.WriteString(caption + "\n")
	}
	w.WriteString("\n\n")
	return converter.RenderSuccess
}
