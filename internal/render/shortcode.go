package render

import (
	"regexp"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// VideoEmbedURL is the privacy-enhanced YouTube embed base.
const VideoEmbedURL = "https://www.youtube-nocookie.com/embed/"

var videoShortcodes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*<YouTube\s+(?:id|videoId)\s*=\s*["']([A-Za-z0-9_-]+)["']\s*/?>\s*(?:</YouTube>)?\s*$`),
	regexp.MustCompile(`^\s*\{\{<\s*youtube\s+(?:id=)?["']?([A-Za-z0-9_-]+)["']?\s*>\}\}\s*$`),
}

// MatchVideoShortcode returns the video ID when line is a video shortcode.
func MatchVideoShortcode(line []byte) (string, bool) {
	for _, re := range videoShortcodes {
		if m := re.FindSubmatch(line); m != nil {
			return string(m[1]), true
		}
	}
	return "", false
}

// KindVideoEmbed is the AST kind of a resolved video shortcode.
var KindVideoEmbed = gmast.NewNodeKind("VideoEmbed")

// VideoEmbed is a block node for an embedded video player.
type VideoEmbed struct {
	gmast.BaseBlock
	VideoID string
}

func (n *VideoEmbed) Kind() gmast.NodeKind { return KindVideoEmbed }

func (n *VideoEmbed) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{"VideoID": n.VideoID}, nil)
}

type videoEmbedParser struct{}

func (p *videoEmbedParser) Trigger() []byte { return []byte{'<', '{'} }

func (p *videoEmbedParser) Open(_ gmast.Node, reader text.Reader, _ parser.Context) (gmast.Node, parser.State) {
	line, segment := reader.PeekLine()
	id, ok := MatchVideoShortcode(line)
	if !ok {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return &VideoEmbed{VideoID: id}, parser.NoChildren
}

func (p *videoEmbedParser) Continue(gmast.Node, text.Reader, parser.Context) parser.State {
	return parser.Close
}

func (p *videoEmbedParser) Close(gmast.Node, text.Reader, parser.Context) {}

func (p *videoEmbedParser) CanInterruptParagraph() bool { return true }

func (p *videoEmbedParser) CanAcceptIndentedLine() bool { return false }

type videoEmbedRenderer struct{}

func (r *videoEmbedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindVideoEmbed, r.render)
}

func (r *videoEmbedRenderer) render(w util.BufWriter, _ []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*VideoEmbed)
	_, _ = w.WriteString(`<div class="video-embed"><iframe src="`)
	_, _ = w.WriteString(VideoEmbedURL)
	_, _ = w.Write(util.EscapeHTML([]byte(n.VideoID)))
	_, _ = w.WriteString(`" title="Embedded video" loading="lazy" frameborder="0" ` +
		`allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" ` +
		`allowfullscreen></iframe></div>` + "\n")
	return gmast.WalkSkipChildren, nil
}

// videoEmbed is the goldmark extension for video shortcodes.
type videoEmbed struct{}

func (videoEmbed) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(util.Prioritized(&videoEmbedParser{}, 100)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&videoEmbedRenderer{}, 100)))
}
