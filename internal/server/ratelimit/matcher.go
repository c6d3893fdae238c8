package ratelimit

import "strings"

// exempt lists routes that never consume tokens
var exempt = map[string]bool{
	"GET /health": true,
}

// Exempt reports whether method and path bypass limiting entirely
func Exempt(method, path string) bool {
	return exempt[method+" "+path]
}

// MatchEndpoint returns the rule for method and path, or nil.
// Rule paths use the router's pattern syntax: "{id}" matches one segment and
// a trailing "{rest...}" matches one or more. When several rules match, the
// one with more literal segments wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)

	var best *EndpointConfig
	bestScore := -1
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		score, ok := matchPattern(splitPath(config.Path), segments)
		if ok && score > bestScore {
			best, bestScore = config, score
		}
	}
	return best
}

// matchPattern returns the number of literal segments matched
func matchPattern(pattern, segments []string) (int, bool) {
	literal := 0
	for i, p := range pattern {
		if isWildcard(p) && strings.HasSuffix(p, "...}") {
			return literal, i == len(pattern)-1 && len(segments) > i
		}
		if i >= len(segments) {
			return 0, false
		}
		if isWildcard(p) {
			continue
		}
		if p != segments[i] {
			return 0, false
		}
		literal++
	}
	return literal, len(pattern) == len(segments)
}

func isWildcard(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
