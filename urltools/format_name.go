// Package urltools guesses the container of a source from its URL.
package urltools

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// FormatName returns the libav short name of the container behind rawURL,
// or an empty string if it cannot be guessed.
func FormatName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FormatNameFromFileExtension(rawURL)
	}
	switch u.Scheme {
	case "file", "":
		return FormatNameFromFileExtension(u.Path)
	case "rtmp", "rtmps":
		return "flv"
	case "srt", "udp", "tcp", "http", "https":
		return "mpegts"
	case "rtsp":
		return "rtsp"
	default:
		return ""
	}
}

func FormatNameFromFileExtension(path string) string {
	switch {
	case hasFileExtension(path, ".mp4", ".m4v", ".mov"):
		return "mp4"
	case hasFileExtension(path, ".mkv", ".mk3d"):
		return "matroska"
	case hasFileExtension(path, ".flv"):
		return "flv"
	case hasFileExtension(path, ".ts", ".mts", ".m2ts", ".mpeg", ".mpg", ".vob"):
		return "mpegts"
	case hasFileExtension(path, ".avi"):
		return "avi"
	case hasFileExtension(path, ".webm"):
		return "webm"
	case hasFileExtension(path, ".h264", ".264"):
		return "h264"
	case hasFileExtension(path, ".h265", ".265", ".hevc"):
		return "hevc"
	default:
		return ""
	}
}

func hasFileExtension(path string, exts ...string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}
