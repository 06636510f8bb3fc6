package application

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

var youTubeHosts = map[string]struct{}{
	"youtube.com":              {},
	"www.youtube.com":          {},
	"m.youtube.com":            {},
	"music.youtube.com":        {},
	"youtube-nocookie.com":     {},
	"www.youtube-nocookie.com": {},
}

// path prefixes whose next segment is the video id
var idPathPrefixes = map[string]struct{}{
	"shorts": {},
	"live":   {},
	"embed":  {},
	"v":      {},
}

const tubiDomain = "tubitv.com"

// IsVideoID reports whether s has the shape of a video identifier.
func IsVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// ExtractVideoID returns the identifier carried by a bare id or a YouTube
// URL. Anything malformed or ambiguous yields ok=false.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return "", false
	}
	if IsVideoID(raw) {
		return raw, true
	}

	u, ok := parseYouTubeURL(raw)
	if !ok {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "youtu.be" {
		id, ok := singleSegment(u.EscapedPath())
		if !ok {
			return "", false
		}
		return agree([]string{id}, u)
	}
	if _, known := youTubeHosts[host]; !known {
		return "", false
	}

	var candidates []string
	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	switch {
	case len(segments) == 1 && segments[0] == "watch":
		values, err := url.ParseQuery(u.RawQuery)
		if err != nil {
			return "", false
		}
		candidates = append(candidates, values["v"]...)
	case len(segments) == 2:
		if _, ok := idPathPrefixes[segments[0]]; !ok {
			return "", false
		}
		candidates = append(candidates, segments[1])
	case len(segments) == 1 && segments[0] == "":
		// bare host; the id may live in the fragment
	default:
		return "", false
	}

	return agree(candidates, u)
}

// agree merges the path/query candidates with any fragment id. All of them
// must be the same valid identifier.
func agree(candidates []string, u *url.URL) (string, bool) {
	fragmentIDs, ok := fragmentVideoIDs(u.EscapedFragment())
	if !ok {
		return "", false
	}
	candidates = append(candidates, fragmentIDs...)
	if len(candidates) == 0 {
		return "", false
	}

	id := candidates[0]
	for _, c := range candidates {
		if c != id || !IsVideoID(c) {
			return "", false
		}
	}

	return id, true
}

// fragmentVideoIDs reads "#v=ID", "#/watch?v=ID" and "#!/watch?v=ID".
// Fragments that carry no v are fine and return no ids.
func fragmentVideoIDs(fragment string) ([]string, bool) {
	if fragment == "" {
		return nil, true
	}

	fragment = strings.TrimPrefix(fragment, "!")
	if rest, found := strings.CutPrefix(fragment, "/watch?"); found {
		fragment = rest
	} else if strings.HasPrefix(fragment, "/") {
		return nil, true
	}
	if !strings.Contains(fragment, "=") {
		return nil, true
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, false
	}

	return values["v"], true
}

func parseYouTubeURL(raw string) (*url.URL, bool) {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		if !looksLikeYouTubeHost(candidate) {
			return nil, false
		}
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" || u.User != nil {
		return nil, false
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return nil, false
	}
	if _, err := url.ParseQuery(u.RawQuery); err != nil {
		return nil, false
	}

	return u, true
}

func looksLikeYouTubeHost(s string) bool {
	host, _, _ := strings.Cut(s, "/")
	host, _, _ = strings.Cut(host, "?")
	host, _, _ = strings.Cut(host, "#")
	host = strings.ToLower(host)
	if host == "youtu.be" {
		return true
	}
	_, ok := youTubeHosts[host]
	return ok
}

func singleSegment(path string) (string, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/")
	if trimmed == "" || strings.Contains(trimmed, "/") {
		return "", false
	}
	return trimmed, true
}

// MatchTubiURL accepts https URLs on tubitv.com or any of its subdomains.
func MatchTubiURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, "https") {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host != tubiDomain && !strings.HasSuffix(host, "."+tubiDomain) {
		return "", false
	}

	return raw, true
}
