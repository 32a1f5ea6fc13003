package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type VideoRepository struct{ db *sql.DB }

func NewVideoRepository(db *sql.DB) repository.IVideo {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) ListStatuses(ctx context.Context, userID string) (map[string]model.VideoStatus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT youtube_video_id, status FROM videos WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.VideoStatus)
	for rows.Next() {
		var id string
		var status model.VideoStatus
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[id] = status
	}
	return out, rows.Err()
}

func (r *VideoRepository) MarkRemoved(ctx context.Context, userID, youtubeVideoID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET status='removed', removed_at=$3, updated_at=$3
		WHERE user_id=$1 AND youtube_video_id=$2 AND status <> 'removed'`, userID, youtubeVideoID, at.UTC())
	return err
}

func (r *VideoRepository) Reactivate(ctx context.Context, userID, youtubeVideoID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET status='active', removed_at=NULL, updated_at=$3
		WHERE user_id=$1 AND youtube_video_id=$2`, userID, youtubeVideoID, at.UTC())
	return err
}

// Upsert writes the latest metadata, forces the row active and returns the local id.
func (r *VideoRepository) Upsert(ctx context.Context, v *model.RemoteVideo) (string, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := nowIfZero(v.UpdatedAt)
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	q := `INSERT INTO videos (id, user_id, youtube_video_id, title, description, thumbnail_url, published_at,
			views, likes, comments_count, duration, tags, status, removed_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'active',NULL,$13,$13)
		  ON CONFLICT (user_id, youtube_video_id) DO UPDATE SET
			title=EXCLUDED.title,
			description=EXCLUDED.description,
			thumbnail_url=EXCLUDED.thumbnail_url,
			published_at=EXCLUDED.published_at,
			views=EXCLUDED.views,
			likes=EXCLUDED.likes,
			comments_count=EXCLUDED.comments_count,
			duration=EXCLUDED.duration,
			tags=EXCLUDED.tags,
			status='active',
			removed_at=NULL,
			updated_at=EXCLUDED.updated_at
		  RETURNING id`
	var id string
	err := r.db.QueryRowContext(ctx, q, v.ID, v.UserID, v.YouTubeVideoID, v.Title, v.Description, v.ThumbnailURL, v.PublishedAt,
		v.Views, v.Likes, v.CommentsCount, v.Duration, pq.Array(tags), now).Scan(&id)
	if err != nil {
		return "", err
	}
	v.ID = id
	return id, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, userID, id string) (*model.RemoteVideo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, youtube_video_id, title, description, thumbnail_url, published_at,
		views, likes, comments_count, duration, tags, status, removed_at, created_at, updated_at
		FROM videos WHERE id=$1 AND user_id=$2`, id, userID)
	v := &model.RemoteVideo{}
	var tags pq.StringArray
	if err := row.Scan(&v.ID, &v.UserID, &v.YouTubeVideoID, &v.Title, &v.Description, &v.ThumbnailURL, &v.PublishedAt,
		&v.Views, &v.Likes, &v.CommentsCount, &v.Duration, &tags, &v.Status, &v.RemovedAt, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	v.Tags = []string(tags)
	return v, nil
}

func (r *VideoRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE user_id=$1`, userID)
	return err
}
