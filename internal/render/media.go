package render

import (
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/article"
)

// MediaURL makes a content-relative media path absolute. URLs with a scheme,
// protocol-relative URLs and rooted paths are returned unchanged; anything
// else gets a leading slash after any "./" prefix is removed.
func MediaURL(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || isAbsoluteURL(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "#") {
		return p
	}
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return "/" + p
}

func isAbsoluteURL(p string) bool {
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "data:") || strings.HasPrefix(p, "mailto:") {
		return true
	}
	return strings.Contains(p, "://")
}

func isExternalLink(dest string) bool {
	d := strings.ToLower(dest)
	return strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") || strings.HasPrefix(d, "//")
}

// CoverMedia is the preview media chosen for a document.
type CoverMedia struct {
	Kind article.MediaKind
	URL  string
}

// IsVideo reports whether the cover is a video.
func (c CoverMedia) IsVideo() bool { return c.Kind == article.MediaVideo }

// Cover picks the preview media for doc. A video cover is preferred when it
// classifies as video, then an image cover that classifies as image; failing
// that either field is sniffed by extension. ok is false when nothing
// classifies, in which case no preview is shown.
func Cover(doc article.Document) (CoverMedia, bool) {
	video, image := doc.CoverVideo, doc.CoverImage
	switch {
	case article.ClassifyMedia(video) == article.MediaVideo:
		return CoverMedia{Kind: article.MediaVideo, URL: MediaURL(video)}, true
	case article.ClassifyMedia(image) == article.MediaImage:
		return CoverMedia{Kind: article.MediaImage, URL: MediaURL(image)}, true
	}
	for _, candidate := range []string{image, video} {
		if kind := article.ClassifyMedia(candidate); kind != article.MediaNone {
			return CoverMedia{Kind: kind, URL: MediaURL(candidate)}, true
		}
	}
	return CoverMedia{}, false
}
