package utils

import "strings"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultUserAgent is the browser UA sent when none is configured.
func DefaultUserAgent() string {
	return defaultUserAgent
}

// NormalizeUserAgent returns ua when it looks like a browser UA, the default
// otherwise. Library UAs such as "Go-http-client/1.1" are rejected upstream.
func NormalizeUserAgent(ua string) string {
	v := strings.TrimSpace(ua)
	if v == "" {
		return defaultUserAgent
	}
	if looksLikeBrowserUA(v) {
		return v
	}
	return defaultUserAgent
}

func looksLikeBrowserUA(ua string) bool {
	s := strings.ToLower(ua)
	if !strings.HasPrefix(s, "mozilla/") {
		return false
	}
	return strings.Contains(s, "applewebkit") || strings.Contains(s, "gecko")
}
