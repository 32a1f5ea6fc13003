package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	youtubePageSize    = 50
	youtubeDetailBatch = 50
	maxCommentsPerCall = 100
)

// IYouTubeSyncUsecase mirrors a user's channel: video reconciliation then comment ingestion.
type IYouTubeSyncUsecase interface {
	Sync(ctx context.Context, userID string) (*dto.YouTubeSyncResponse, error)
}

type YouTubeSyncConfig struct {
	MaxVideos         int
	CommentVideos     int
	DetailConcurrency int
}

type YouTubeSyncDeps struct {
	Credentials  ICredentials
	Clients      repository.YouTubeFactory
	Integrations repository.IIntegration
	Videos       repository.IVideo
	Comments     repository.IComment
	Events       repository.ISyncEventPublisher
	Now          func() time.Time
}

type youTubeSyncUsecase struct {
	YouTubeSyncDeps
	cfg YouTubeSyncConfig
}

func NewYouTubeSyncUsecase(deps YouTubeSyncDeps, cfg YouTubeSyncConfig) IYouTubeSyncUsecase {
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = 500
	}
	if cfg.CommentVideos <= 0 {
		cfg.CommentVideos = 10
	}
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = 3
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &youTubeSyncUsecase{YouTubeSyncDeps: deps, cfg: cfg}
}

func (u *youTubeSyncUsecase) Sync(ctx context.Context, userID string) (*dto.YouTubeSyncResponse, error) {
	integration, token, err := u.Credentials.Authorize(ctx, userID, model.ProviderYouTube)
	if err != nil {
		return nil, err
	}
	if integration.ChannelID == nil || *integration.ChannelID == "" {
		return nil, fmt.Errorf("youtube: %w: no channel recorded for this integration", model.ErrNotConnected)
	}
	client, err := u.Clients(ctx, token)
	if err != nil {
		return nil, err
	}
	progress := progressReporter{publisher: u.Events, userID: userID, provider: model.ProviderYouTube, now: u.Now}
	log := logger.GetLogger().WithFields(logrus.Fields{"user_id": userID, "provider": model.ProviderYouTube})

	progress.step(ctx, "listing", 10, "Listing channel videos")
	remoteIDs, err := u.listRemoteIDs(ctx, client, *integration.ChannelID)
	if err != nil {
		return nil, err
	}

	local, err := u.Videos.ListStatuses(ctx, userID)
	if err != nil {
		return nil, err
	}
	remote := make(map[string]struct{}, len(remoteIDs))
	for _, id := range remoteIDs {
		remote[id] = struct{}{}
	}

	res := &dto.YouTubeSyncResponse{}
	now := u.Now().UTC()
	for id, status := range local {
		if _, ok := remote[id]; ok || status == model.VideoRemoved {
			continue
		}
		if err := u.Videos.MarkRemoved(ctx, userID, id, now); err != nil {
			log.WithField("youtube_video_id", id).WithField("error", err).Warn("Error while marking video removed")
			continue
		}
		res.RemovedCount++
	}
	for _, id := range remoteIDs {
		if local[id] != model.VideoRemoved {
			continue
		}
		if err := u.Videos.Reactivate(ctx, userID, id, now); err != nil {
			log.WithField("youtube_video_id", id).WithField("error", err).Warn("Error while reactivating video")
			continue
		}
		res.ReactivatedCount++
	}

	if len(remoteIDs) == 0 {
		if err := u.Integrations.MarkSynced(ctx, userID, model.ProviderYouTube, u.Now()); err != nil {
			return nil, err
		}
		res.Message = "No videos found on YouTube"
		progress.done(ctx, res.Message, counts(res))
		return res, nil
	}

	progress.step(ctx, "details", 40, fmt.Sprintf("Fetching details for %d videos", len(remoteIDs)))
	localIDs, err := u.upsertDetails(ctx, client, userID, remoteIDs)
	if err != nil {
		return nil, err
	}
	res.VideosCount = len(localIDs)

	progress.step(ctx, "comments", 75, "Fetching comments")
	res.CommentsCount = u.ingestComments(ctx, client, userID, remoteIDs, localIDs)

	if err := u.Integrations.MarkSynced(ctx, userID, model.ProviderYouTube, u.Now()); err != nil {
		return nil, err
	}
	res.Message = "Sync completed"
	log.WithFields(logrus.Fields{
		"videos":      res.VideosCount,
		"comments":    res.CommentsCount,
		"removed":     res.RemovedCount,
		"reactivated": res.ReactivatedCount,
	}).Info("YouTube sync completed")
	progress.done(ctx, res.Message, counts(res))
	return res, nil
}

// listRemoteIDs pages through the channel listing until exhausted or the cap is reached.
func (u *youTubeSyncUsecase) listRemoteIDs(ctx context.Context, client repository.IYouTube, channelID string) ([]string, error) {
	var ids []string
	pageToken := ""
	for len(ids) < u.cfg.MaxVideos {
		page, err := client.ListChannelVideoIDs(ctx, channelID, pageToken, youtubePageSize)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page.IDs...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	if len(ids) > u.cfg.MaxVideos {
		ids = ids[:u.cfg.MaxVideos]
	}
	return ids, nil
}

// upsertDetails fetches metadata in batches and writes every video as active.
// It returns the local id of each stored video keyed by provider id.
func (u *youTubeSyncUsecase) upsertDetails(ctx context.Context, client repository.IYouTube, userID string, ids []string) (map[string]string, error) {
	var mu sync.Mutex
	localIDs := make(map[string]string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.DetailConcurrency)
	for start := 0; start < len(ids); start += youtubeDetailBatch {
		batch := ids[start:min(start+youtubeDetailBatch, len(ids))]
		g.Go(func() error {
			videos, err := client.GetVideos(gctx, batch)
			if err != nil {
				return err
			}
			for i := range videos {
				v := &videos[i]
				v.UserID = userID
				v.Status = model.VideoActive
				v.RemovedAt = nil
				id, err := u.Videos.Upsert(gctx, v)
				if err != nil {
					logger.GetLogger().WithFields(logrus.Fields{
						"user_id":          userID,
						"youtube_video_id": v.YouTubeVideoID,
						"error":            err,
					}).Warn("Error while upserting video")
					continue
				}
				mu.Lock()
				localIDs[v.YouTubeVideoID] = id
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return localIDs, nil
}

// ingestComments stores top-level comments for the newest videos. Failures per video are skipped.
func (u *youTubeSyncUsecase) ingestComments(ctx context.Context, client repository.IYouTube, userID string, ids []string, localIDs map[string]string) int {
	stored := 0
	for _, ytID := range ids[:min(u.cfg.CommentVideos, len(ids))] {
		log := logger.GetLogger().WithField("user_id", userID).WithField("youtube_video_id", ytID)
		comments, err := client.ListTopLevelComments(ctx, ytID, maxCommentsPerCall)
		if model.IsCommentsDisabled(err) {
			log.Info("Comments disabled for video")
			continue
		}
		if err != nil {
			log.WithField("error", err).Warn("Skipping comments for video")
			continue
		}
		var videoID *string
		if id, ok := localIDs[ytID]; ok {
			videoID = &id
		}
		for i := range comments {
			c := &comments[i]
			c.UserID = userID
			c.YouTubeVideoID = ytID
			c.VideoID = videoID
			if err := u.Comments.Upsert(ctx, c); err != nil {
				log.WithField("youtube_comment_id", c.YouTubeCommentID).WithField("error", err).Warn("Error while upserting comment")
				continue
			}
			stored++
		}
	}
	return stored
}

func counts(r *dto.YouTubeSyncResponse) map[string]int {
	return map[string]int{
		"videos":      r.VideosCount,
		"comments":    r.CommentsCount,
		"removed":     r.RemovedCount,
		"reactivated": r.ReactivatedCount,
	}
}
