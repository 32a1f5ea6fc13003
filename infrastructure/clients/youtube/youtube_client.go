package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	maxDetailBatch  = 50
	maxCaptionBytes = 4 << 20
)

var ErrNoChannel = errors.New("no YouTube channel found for this account")

// Client is a YouTube Data API client acting as one user.
type Client struct {
	service  *youtube.Service
	sanitize *bluemonday.Policy
}

// NewYouTubeClient creates a client authenticated with a bearer access token.
// Extra options are appended, so tests can point the client at a fake endpoint.
func NewYouTubeClient(ctx context.Context, accessToken string, opts ...option.ClientOption) (repository.IYouTube, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	service, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service, sanitize: bluemonday.StrictPolicy()}, nil
}

// Factory adapts NewYouTubeClient to repository.YouTubeFactory.
func Factory(opts ...option.ClientOption) repository.YouTubeFactory {
	return func(ctx context.Context, accessToken string) (repository.IYouTube, error) {
		return NewYouTubeClient(ctx, accessToken, opts...)
	}
}

func (c *Client) GetMyChannel(ctx context.Context) (*model.AccountIdentity, error) {
	resp, err := c.service.Channels.List([]string{"snippet", "statistics"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, providerError("channels.list", err)
	}
	if len(resp.Items) == 0 {
		return nil, &model.ProviderError{Provider: model.ProviderYouTube, Op: "channels.list", Description: ErrNoChannel.Error(), Err: ErrNoChannel}
	}

	ch := resp.Items[0]
	identity := &model.AccountIdentity{AccountID: ch.Id}
	if ch.Snippet != nil {
		identity.DisplayName = ch.Snippet.Title
		identity.Thumbnail = pickThumbnail(ch.Snippet.Thumbnails)
	}
	if ch.Statistics != nil {
		subs := int64(ch.Statistics.SubscriberCount)
		identity.Subscribers = &subs
	}
	return identity, nil
}

func (c *Client) ListChannelVideoIDs(ctx context.Context, channelID, pageToken string, pageSize int64) (*dto.VideoIDPage, error) {
	call := c.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, providerError("search.list", err)
	}

	page := &dto.VideoIDPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			page.IDs = append(page.IDs, item.Id.VideoId)
		}
	}
	return page, nil
}

func (c *Client) GetVideos(ctx context.Context, ids []string) ([]model.RemoteVideo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxDetailBatch {
		return nil, fmt.Errorf("videos.list accepts at most %d ids, got %d", maxDetailBatch, len(ids))
	}

	resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, providerError("videos.list", err)
	}

	videos := make([]model.RemoteVideo, 0, len(resp.Items))
	for _, v := range resp.Items {
		videos = append(videos, convertToRemoteVideo(v))
	}
	return videos, nil
}

func convertToRemoteVideo(video *youtube.Video) model.RemoteVideo {
	rv := model.RemoteVideo{
		YouTubeVideoID: video.Id,
		Status:         model.VideoActive,
	}
	if video.Snippet != nil {
		rv.Title = video.Snippet.Title
		rv.Description = video.Snippet.Description
		rv.Tags = video.Snippet.Tags
		rv.ThumbnailURL = pickThumbnail(video.Snippet.Thumbnails)
		if publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			rv.PublishedAt = &publishedAt
		}
	}
	if video.Statistics != nil {
		rv.Views = int64(video.Statistics.ViewCount)
		rv.Likes = int64(video.Statistics.LikeCount)
		rv.CommentsCount = int64(video.Statistics.CommentCount)
	}
	if video.ContentDetails != nil {
		rv.Duration = video.ContentDetails.Duration
	}
	return rv
}

func pickThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil && t.High.Url != "" {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}

func (c *Client) ListTopLevelComments(ctx context.Context, videoID string, max int64) ([]model.Comment, error) {
	resp, err := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, providerError("commentThreads.list", err)
	}

	comments := make([]model.Comment, 0, len(resp.Items))
	for _, thread := range resp.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil || thread.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		top := thread.Snippet.TopLevelComment
		cm := model.Comment{
			YouTubeVideoID:   videoID,
			YouTubeCommentID: top.Id,
			Author:           top.Snippet.AuthorDisplayName,
			AuthorAvatar:     top.Snippet.AuthorProfileImageUrl,
			Text:             c.plainText(top.Snippet.TextDisplay),
			LikeCount:        top.Snippet.LikeCount,
			ReplyCount:       thread.Snippet.TotalReplyCount,
		}
		if publishedAt, err := time.Parse(time.RFC3339, top.Snippet.PublishedAt); err == nil {
			cm.PublishedAt = &publishedAt
		}
		comments = append(comments, cm)
	}
	return comments, nil
}

// plainText turns the HTML textDisplay of a comment into plain text.
func (c *Client) plainText(s string) string {
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(s)
	return strings.TrimSpace(html.UnescapeString(c.sanitize.Sanitize(s)))
}

func (c *Client) ListCaptionTracks(ctx context.Context, videoID string) ([]model.CaptionTrack, error) {
	resp, err := c.service.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, providerError("captions.list", err)
	}

	tracks := make([]model.CaptionTrack, 0, len(resp.Items))
	for _, item := range resp.Items {
		track := model.CaptionTrack{ID: item.Id}
		if item.Snippet != nil {
			track.Language = item.Snippet.Language
			track.TrackKind = strings.ToLower(item.Snippet.TrackKind)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (c *Client) DownloadCaption(ctx context.Context, trackID, format string) (string, error) {
	resp, err := c.service.Captions.Download(trackID).Tfmt(format).Context(ctx).Download()
	if err != nil {
		return "", providerError("captions.download", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		return "", providerError("captions.download", err)
	}
	return string(body), nil
}

func providerError(op string, err error) error {
	pe := &model.ProviderError{Provider: model.ProviderYouTube, Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		pe.Status = gerr.Code
		pe.Description = gerr.Message
		if len(gerr.Errors) > 0 {
			pe.Reason = gerr.Errors[0].Reason
		}
		if pe.Description == "" {
			pe.Description = pe.Reason
		}
	}
	return pe
}
