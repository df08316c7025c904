package urltools

import (
	"net/url"
)

// IsLocalFile reports whether rawURL points to the local filesystem.
// Windows drive letters are parsed as a scheme and count as local.
func IsLocalFile(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	switch u.Scheme {
	case "file", "":
		return true
	case "rtmp", "rtmps", "srt", "udp", "tcp", "http", "https", "rtsp", "rtp":
		return false
	default:
		return len(u.Scheme) == 1
	}
}

// LocalPath strips the "file://" scheme; other inputs are returned as is.
func LocalPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return rawURL
	}
	return u.Path
}
