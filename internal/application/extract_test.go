package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const rickID = "dQw4w9WgXcQ"

func TestExtractVideoIDRecognizedShapes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		rickID,
		"  " + rickID + "  ",
		"https://www.youtube.com/watch?v=" + rickID,
		"https://www.youtube.com/watch?feature=share&v=" + rickID + "&t=42",
		"https://youtube.com/watch?t=1&v=" + rickID + "#t=30",
		"http://www.youtube.com/watch?v=" + rickID,
		"HTTPS://WWW.YOUTUBE.COM/watch?v=" + rickID,
		"youtube.com/watch?v=" + rickID,
		"www.youtube.com/watch?list=PL1&v=" + rickID,
		"https://music.youtube.com/watch?v=" + rickID + "&list=RDAMVM",
		"https://www.youtube.com/watch?v=" + rickID + "&v=" + rickID,
		"https://youtu.be/" + rickID,
		"https://youtu.be/" + rickID + "?si=abcdef",
		"youtu.be/" + rickID,
		"https://www.youtube.com/shorts/" + rickID,
		"https://www.youtube.com/shorts/" + rickID + "/",
		"https://www.youtube.com/live/" + rickID + "?feature=share",
		"https://www.youtube.com/embed/" + rickID + "?autoplay=1",
		"https://www.youtube-nocookie.com/embed/" + rickID,
		"https://www.youtube.com/v/" + rickID,
		"https://www.youtube.com/#v=" + rickID,
		"https://m.youtube.com/#/watch?v=" + rickID,
		"https://www.youtube.com/#!/watch?v=" + rickID + "&t=5",
		"https://www.youtube.com/watch?v=" + rickID + "#v=" + rickID,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			id, ok := ExtractVideoID(input)
			assert.True(t, ok)
			assert.Equal(t, rickID, id)
		})
	}
}

func TestExtractVideoIDRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"   ",
		"abc",
		"never gonna give you up",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=",
		"https://www.youtube.com/watch?v=abc",
		"https://www.youtube.com/watch?v=" + rickID + "!",
		"https://www.youtube.com/watch?v=" + rickID + "&v=oHg5SJYRHA0",
		"https://www.youtube.com/watch?v=" + rickID + "#v=oHg5SJYRHA0",
		"https://www.youtube.com/watch?v=dQw4%zzWgXcQ",
		"https://www.youtube.com/watch?v=" + rickID + "#v=%zz",
		"https://www.youtube.com/watch?v=" + rickID + "; rm -rf /",
		"https://www.youtube.com/",
		"https://www.youtube.com/shorts/",
		"https://www.youtube.com/channel/UC12345678/videos",
		"https://www.youtube.com/results?search_query=" + rickID,
		"https://youtu.be/",
		"https://youtu.be/" + rickID + "/extra",
		"https://example.com/watch?v=" + rickID,
		"https://youtube.com.evil.example/watch?v=" + rickID,
		"youtube.com.evil.example/watch?v=" + rickID,
		"ftp://www.youtube.com/watch?v=" + rickID,
		"https://user@www.youtube.com/watch?v=" + rickID,
		rickID + ".mp4",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			id, ok := ExtractVideoID(input)
			assert.False(t, ok)
			assert.Empty(t, id)
		})
	}
}

func TestMatchTubiURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  bool
	}{
		{input: "https://tubitv.com/movies/100012345/the-film", want: true},
		{input: "https://www.tubitv.com/series/300001/show", want: true},
		{input: "HTTPS://WWW.TUBITV.COM/movies/1", want: true},
		{input: "https://gdpr.tubitv.com/movies/1", want: true},
		{input: "http://tubitv.com/movies/1", want: false},
		{input: "tubitv.com/movies/1", want: false},
		{input: "https://nottubitv.com/movies/1", want: false},
		{input: "https://tubitv.com.example/movies/1", want: false},
		{input: "https://tubitv.com/movies/ 1", want: false},
		{input: "the tubi movie", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := MatchTubiURL(tc.input)
			assert.Equal(t, tc.want, ok)
			if tc.want {
				assert.Equal(t, tc.input, got)
			}
		})
	}
}
