package persistence

import (
	"context"
	"database/sql"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/google/uuid"
)

type CommentRepository struct{ db *sql.DB }

func NewCommentRepository(db *sql.DB) repository.IComment {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Upsert(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	q := `INSERT INTO comments (id, user_id, video_id, youtube_video_id, youtube_comment_id, author, author_avatar, text,
			like_count, reply_count, published_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
		  ON CONFLICT (user_id, youtube_comment_id) DO UPDATE SET
			video_id=COALESCE(EXCLUDED.video_id, comments.video_id),
			author=EXCLUDED.author,
			author_avatar=EXCLUDED.author_avatar,
			text=EXCLUDED.text,
			like_count=EXCLUDED.like_count,
			reply_count=EXCLUDED.reply_count,
			updated_at=NOW()`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.UserID, c.VideoID, c.YouTubeVideoID, c.YouTubeCommentID, c.Author, c.AuthorAvatar, c.Text,
		c.LikeCount, c.ReplyCount, c.PublishedAt)
	return err
}

func (r *CommentRepository) TopByLikes(ctx context.Context, userID, videoID string, limit int) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, video_id, youtube_video_id, youtube_comment_id, author, author_avatar, text,
			like_count, reply_count, published_at
		FROM comments WHERE user_id=$1 AND video_id=$2
		ORDER BY like_count DESC LIMIT $3`, userID, videoID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Comment, 0, limit)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.VideoID, &c.YouTubeVideoID, &c.YouTubeCommentID, &c.Author, &c.AuthorAvatar, &c.Text,
			&c.LikeCount, &c.ReplyCount, &c.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE user_id=$1`, userID)
	return err
}
