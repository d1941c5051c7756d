package article

import (
	"net/url"
	"path"
	"strings"
)

// MediaKind discriminates cover media by file extension.
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaImage
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "none"
	}
}

var (
	videoExtensions = map[string]bool{".mp4": true, ".webm": true, ".mov": true, ".m4v": true, ".ogv": true}
	imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".avif": true, ".svg": true}
)

// ClassifyMedia returns the media kind of a path or URL by its extension.
// Query strings and fragments are ignored.
func ClassifyMedia(p string) MediaKind {
	p = strings.TrimSpace(p)
	if p == "" {
		return MediaNone
	}
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	switch {
	case videoExtensions[ext]:
		return MediaVideo
	case imageExtensions[ext]:
		return MediaImage
	default:
		return MediaNone
	}
}
