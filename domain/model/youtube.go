package model

import "time"

// VideoStatus is the lifecycle state of a mirrored video.
type VideoStatus string

const (
	VideoActive  VideoStatus = "active"
	VideoRemoved VideoStatus = "removed"
)

// RemoteVideo mirrors one YouTube video owned by a user.
type RemoteVideo struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	YouTubeVideoID string      `json:"youtube_video_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	ThumbnailURL   string      `json:"thumbnail_url"`
	PublishedAt    *time.Time  `json:"published_at,omitempty"`
	Views          int64       `json:"views"`
	Likes          int64       `json:"likes"`
	CommentsCount  int64       `json:"comments_count"`
	Duration       string      `json:"duration"`
	Tags           []string    `json:"tags"`
	Status         VideoStatus `json:"status"`
	RemovedAt      *time.Time  `json:"removed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Comment mirrors one top-level YouTube comment.
type Comment struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	VideoID          *string    `json:"video_id,omitempty"`
	YouTubeVideoID   string     `json:"youtube_video_id"`
	YouTubeCommentID string     `json:"youtube_comment_id"`
	Author           string     `json:"author"`
	AuthorAvatar     string     `json:"author_avatar"`
	Text             string     `json:"text"`
	LikeCount        int64      `json:"like_count"`
	ReplyCount       int64      `json:"reply_count"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

// CaptionTrack describes a caption track available for a video.
type CaptionTrack struct {
	ID        string
	Language  string
	TrackKind string // standard | asr | forced
}

// IsAutoGenerated reports whether the track was produced by speech recognition.
func (c CaptionTrack) IsAutoGenerated() bool {
	return c.TrackKind == "asr"
}
