package render

import (
	"fmt"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Class hooks applied to rendered blocks.
const (
	ClassHeading   = "article-heading"
	ClassParagraph = "article-paragraph"
	ClassList      = "article-list"
	ClassListItem  = "article-list-item"
	ClassImage     = "article-image"
	ClassCode      = "article-code"
	ClassQuote     = "article-quote"
	ClassCodeBlock = "article-codeblock"
	ClassVideo     = "video-embed"
)

// maxHeadingLevel clamps deeper headings.
const maxHeadingLevel = 3

// classTransformer decorates the AST with the site's class hooks, clamps
// heading levels, rewrites image paths and marks external links.
type classTransformer struct{}

func (t *classTransformer) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			if node.Level > maxHeadingLevel {
				node.Level = maxHeadingLevel
			}
			node.SetAttributeString("class", []byte(fmt.Sprintf("%s %s--%d", ClassHeading, ClassHeading, node.Level)))
		case *gmast.Paragraph:
			node.SetAttributeString("class", []byte(ClassParagraph))
		case *gmast.List:
			node.SetAttributeString("class", []byte(ClassList))
		case *gmast.ListItem:
			node.SetAttributeString("class", []byte(ClassListItem))
		case *gmast.Blockquote:
			node.SetAttributeString("class", []byte(ClassQuote))
		case *gmast.CodeSpan:
			node.SetAttributeString("class", []byte(ClassCode))
		case *gmast.Image:
			node.Destination = []byte(MediaURL(string(node.Destination)))
			node.SetAttributeString("class", []byte(ClassImage))
			node.SetAttributeString("loading", []byte("lazy"))
		case *gmast.Link:
			if isExternalLink(string(node.Destination)) {
				node.SetAttributeString("target", []byte("_blank"))
				node.SetAttributeString("rel", []byte("noopener noreferrer"))
			}
		}
		return gmast.WalkContinue, nil
	})
}
