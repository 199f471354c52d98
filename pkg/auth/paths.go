package auth

import "strings"

// RequireAuth reports whether path needs authentication given the
// excluded patterns. The path is compared with a trailing slash. A
// pattern ending in "*" matches any path containing its prefix, so
// "/api/v1/stat*" excludes both /api/v1/status and /api/v1/stats.
// Other patterns must equal the normalized path.
//
// An empty path or an empty pattern list always requires auth.
func RequireAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	for _, pattern := range excluded {
		if prefix, wildcard := strings.CutSuffix(pattern, "*"); wildcard {
			// Substring, not prefix: "/stat*" also matches "/x/stat".
			if strings.Contains(path, prefix) {
				return false
			}
			continue
		}
		if pattern == path {
			return false
		}
	}
	return true
}
