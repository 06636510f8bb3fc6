package application

import (
	"encoding/json"
	"errors"

	"github.com/buger/jsonparser"
)

// VideoIDKeys are the resolver output keys that may carry a video id.
var VideoIDKeys = []string{"youtube_id", "youtubeId", "video_id", "videoId"}

var errStopScan = errors.New("stop scan")

// FindVideoID walks data depth-first in document order and returns the
// first string value under one of keys that is a valid video id. Invalid
// JSON yields no result.
func FindVideoID(data []byte, keys []string) (string, bool) {
	if !json.Valid(data) {
		return "", false
	}

	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return "", false
	}

	wanted := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}

	s := scanner{keys: wanted}
	s.walk(value, dataType)
	return s.found, s.found != ""
}

type scanner struct {
	keys  map[string]struct{}
	found string
}

func (s *scanner) walk(value []byte, dataType jsonparser.ValueType) {
	switch dataType {
	case jsonparser.Object:
		_ = jsonparser.ObjectEach(value, func(key, child []byte, childType jsonparser.ValueType, _ int) error {
			if _, ok := s.keys[string(key)]; ok && childType == jsonparser.String {
				if id, err := jsonparser.ParseString(child); err == nil && IsVideoID(id) {
					s.found = id
					return errStopScan
				}
			}

			s.walk(child, childType)
			if s.found != "" {
				return errStopScan
			}
			return nil
		})
	case jsonparser.Array:
		_, _ = jsonparser.ArrayEach(value, func(child []byte, childType jsonparser.ValueType, _ int, _ error) {
			if s.found != "" {
				return
			}
			s.walk(child, childType)
		})
	}
}
