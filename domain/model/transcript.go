package model

import "time"

// TranscriptSource tags where transcript text came from.
type TranscriptSource string

const (
	TranscriptFromCaptions TranscriptSource = "youtube_captions"
	TranscriptFromAudio    TranscriptSource = "transcribed_audio"
	TranscriptMetadataOnly TranscriptSource = "metadata_only"
)

// TranscriptSegment is one timed caption cue.
type TranscriptSegment struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Text  string `json:"text"`
}

// Transcript is the cached text representation of a video's spoken content.
type Transcript struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	VideoID        *string             `json:"video_id,omitempty"`
	YouTubeVideoID string              `json:"youtube_video_id"`
	Content        string              `json:"content"`
	Source         TranscriptSource    `json:"source"`
	Language       *string             `json:"language,omitempty"`
	Segments       []TranscriptSegment `json:"timestamps,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}
