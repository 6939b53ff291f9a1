// Package media classifies question media references so the client knows
// how to render them. The attempt engine itself treats media as opaque.
package media

import (
	"net/url"
	"path"
	"strings"
)

// Kind is the render category for a media reference.
type Kind string

const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindEmbed   Kind = "embed"
	KindUnknown Kind = "unknown"
)

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".bmp": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".webm": {}, ".ogg": {}, ".mov": {},
}

var embedHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
}

// Classify inspects a media reference and reports how it should be
// rendered. Data URLs are classified by their MIME prefix; everything
// else by host and file extension.
func Classify(ref string) Kind {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return KindUnknown
	}

	if strings.HasPrefix(ref, "data:") {
		switch {
		case strings.HasPrefix(ref, "data:image/"):
			return KindImage
		case strings.HasPrefix(ref, "data:video/"):
			return KindVideo
		}
		return KindUnknown
	}

	u, err := url.Parse(ref)
	if err != nil {
		return KindUnknown
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, h := range embedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return KindEmbed
		}
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if _, ok := imageExts[ext]; ok {
		return KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	return KindUnknown
}
