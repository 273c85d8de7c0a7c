package api

import (
	"net/url"
	"strings"
)

// StreamURL builds the HLS source for a playback credential. The token is only attached to signed credentials.
func StreamURL(host string, tokens PlaybackTokens) string {
	u := url.URL{
		Scheme: "https",
		Host:   strings.TrimSuffix(host, "/"),
		Path:   "/" + tokens.PlaybackID + ".m3u8",
	}
	if tokens.Signed && tokens.Playback != "" {
		u.RawQuery = url.Values{"token": {tokens.Playback}}.Encode()
	}
	return u.String()
}
