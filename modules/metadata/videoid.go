// Package metadata resolves YouTube video metadata through a chain of
// providers, falling back to deterministic placeholders so a save never
// fails because an external service is down.
package metadata

import (
	"net/url"
	"regexp"
	"strings"
)

// videoIDPattern matches a canonical 11-character YouTube video id.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID extracts the video id from a YouTube URL. It understands
// youtu.be short links, watch?v= URLs, /shorts/ and /embed/ paths.
// Returns false when no id can be extracted.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Tolerate scheme-less input like "youtu.be/abc".
		u, err = url.Parse("https://" + raw)
		if err != nil || u.Host == "" {
			return "", false
		}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch {
	case host == "youtu.be":
		return validateID(firstSegment(u.Path))
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if id := u.Query().Get("v"); id != "" {
			return validateID(id)
		}
		if rest, ok := pathAfter(u.Path, "shorts"); ok {
			return validateID(rest)
		}
		if rest, ok := pathAfter(u.Path, "embed"); ok {
			return validateID(rest)
		}
	}

	return "", false
}

// DefaultThumbnailURL returns the deterministic thumbnail for a video id.
// This URL exists for every public video without any API call.
func DefaultThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

func firstSegment(path string) string {
	path = strings.Trim(path, "/")
	seg, _, _ := strings.Cut(path, "/")
	return seg
}

// pathAfter returns the path segment following the given prefix segment,
// e.g. pathAfter("/shorts/abc", "shorts") == "abc".
func pathAfter(path, prefix string) (string, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg == prefix && i+1 < len(segments) {
			return segments[i+1], true
		}
	}
	return "", false
}

func validateID(id string) (string, bool) {
	if videoIDPattern.MatchString(id) {
		return id, true
	}
	return "", false
}
