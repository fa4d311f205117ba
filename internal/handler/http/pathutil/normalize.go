package pathutil

import (
	"regexp"
	"strings"
)

// pathPattern pairs a route regex with its normalized template.
type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// pathPatterns lists dynamic routes, most specific first. Pre-compiled at
// init so normalization stays cheap on the hot path.
var pathPatterns = []*pathPattern{
	{pattern: regexp.MustCompile(`^/channels/\d+/refresh$`), template: "/channels/:id/refresh"},
	{pattern: regexp.MustCompile(`^/channels/\d+$`), template: "/channels/:id"},
	{pattern: regexp.MustCompile(`^/groups/\d+$`), template: "/groups/:id"},
	{pattern: regexp.MustCompile(`^/media/.+$`), template: "/media/:file"},
}

// NormalizePath collapses dynamic URL paths to templates so metric labels
// keep a bounded cardinality. Paths with IDs (e.g. /channels/123) become
// template form (/channels/:id); static paths pass through unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}

	return path
}
