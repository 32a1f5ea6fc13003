package repository

import (
	"context"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
)

// IYouTube is a YouTube Data API client bound to one user's access token.
type IYouTube interface {
	GetMyChannel(ctx context.Context) (*model.AccountIdentity, error)
	// ListChannelVideoIDs returns one page of the channel's uploads, newest first.
	ListChannelVideoIDs(ctx context.Context, channelID, pageToken string, pageSize int64) (*dto.VideoIDPage, error)
	// GetVideos fetches metadata and statistics for at most 50 ids.
	GetVideos(ctx context.Context, ids []string) ([]model.RemoteVideo, error)
	ListTopLevelComments(ctx context.Context, videoID string, max int64) ([]model.Comment, error)
	ListCaptionTracks(ctx context.Context, videoID string) ([]model.CaptionTrack, error)
	DownloadCaption(ctx context.Context, trackID, format string) (string, error)
}

// YouTubeFactory builds a client for an access token.
type YouTubeFactory func(ctx context.Context, accessToken string) (IYouTube, error)

// IVideo persists the local mirror of a user's videos.
type IVideo interface {
	ListStatuses(ctx context.Context, userID string) (map[string]model.VideoStatus, error)
	MarkRemoved(ctx context.Context, userID, youtubeVideoID string, at time.Time) error
	Reactivate(ctx context.Context, userID, youtubeVideoID string, at time.Time) error
	// Upsert writes the video as active and returns its local id.
	Upsert(ctx context.Context, video *model.RemoteVideo) (string, error)
	GetByID(ctx context.Context, userID, id string) (*model.RemoteVideo, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}

// IComment persists mirrored comments.
type IComment interface {
	Upsert(ctx context.Context, comment *model.Comment) error
	TopByLikes(ctx context.Context, userID, videoID string, limit int) ([]model.Comment, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}

// ITranscript persists the transcript cache.
type ITranscript interface {
	Get(ctx context.Context, userID, youtubeVideoID string) (*model.Transcript, error)
	// InsertIfAbsent stores t unless a row exists and returns whichever row is stored.
	InsertIfAbsent(ctx context.Context, t *model.Transcript) (*model.Transcript, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}

// IDraft persists generated drafts.
type IDraft interface {
	InsertBatch(ctx context.Context, drafts []model.Draft) (int, error)
}
