package domain

import "fmt"

type ActionKind string

const (
	ActionYouTubeLaunch        ActionKind = "youtube"
	ActionTubiLaunch           ActionKind = "tubi"
	ActionGlobalSearchDelegate ActionKind = "global_search"
)

// ResolvedAction is produced once by the content resolver and consumed once
// by the dispatcher. Only the fields for Kind are set.
type ResolvedAction struct {
	Kind    ActionKind `json:"kind" yaml:"kind"`
	VideoID string     `json:"video_id,omitempty" yaml:"video_id,omitempty"`
	URL     string     `json:"url,omitempty" yaml:"url,omitempty"`
	App     string     `json:"app,omitempty" yaml:"app,omitempty"`
	Season  int        `json:"season,omitempty" yaml:"season,omitempty"`
	Episode int        `json:"episode,omitempty" yaml:"episode,omitempty"`
	Query   string     `json:"query,omitempty" yaml:"query,omitempty"`
}

func YouTubeLaunch(videoID string) ResolvedAction {
	return ResolvedAction{Kind: ActionYouTubeLaunch, VideoID: videoID}
}

func TubiLaunch(url string) ResolvedAction {
	return ResolvedAction{Kind: ActionTubiLaunch, URL: url}
}

func GlobalSearchDelegate(app string, season, episode int, query string) ResolvedAction {
	return ResolvedAction{
		Kind:    ActionGlobalSearchDelegate,
		App:     app,
		Season:  season,
		Episode: episode,
		Query:   query,
	}
}

func (a ResolvedAction) String() string {
	switch a.Kind {
	case ActionYouTubeLaunch:
		return "youtube video " + a.VideoID
	case ActionTubiLaunch:
		return "tubi " + a.URL
	case ActionGlobalSearchDelegate:
		return fmt.Sprintf("search %q in %s S%02dE%02d", a.Query, a.App, a.Season, a.Episode)
	default:
		return string(a.Kind)
	}
}

// Query is the user's play request. Nil pointers mean "not supplied".
type Query struct {
	Text    string
	App     *string
	Season  *int
	Episode *int
}

type Provider struct {
	Name    string
	Package string
}

const (
	DefaultYouTubePackage = "com.google.android.youtube.tv"
	DefaultTubiPackage    = "com.tubitv"
)

type MediaKey string

const (
	MediaKeyPause  MediaKey = "KEYCODE_MEDIA_PAUSE"
	MediaKeyResume MediaKey = "KEYCODE_MEDIA_PLAY"
)
