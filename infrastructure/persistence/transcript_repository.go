package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/google/uuid"
)

type TranscriptRepository struct{ db *sql.DB }

func NewTranscriptRepository(db *sql.DB) repository.ITranscript {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Get(ctx context.Context, userID, youtubeVideoID string) (*model.Transcript, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, video_id, youtube_video_id, content, source, language, timestamps, created_at
		FROM transcripts WHERE user_id=$1 AND youtube_video_id=$2`, userID, youtubeVideoID)
	t, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// InsertIfAbsent keeps the first transcript written for a video. A concurrent
// writer that loses the race gets the winner's row back.
func (r *TranscriptRepository) InsertIfAbsent(ctx context.Context, t *model.Transcript) (*model.Transcript, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = nowIfZero(t.CreatedAt)
	var segments any
	if len(t.Segments) > 0 {
		raw, err := json.Marshal(t.Segments)
		if err != nil {
			return nil, err
		}
		segments = raw
	}
	q := `INSERT INTO transcripts (id, user_id, video_id, youtube_video_id, content, source, language, timestamps, created_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		  ON CONFLICT (user_id, youtube_video_id) DO NOTHING
		  RETURNING id`
	var id string
	err := r.db.QueryRowContext(ctx, q, t.ID, t.UserID, t.VideoID, t.YouTubeVideoID, t.Content, t.Source, t.Language, segments, t.CreatedAt).Scan(&id)
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, sql.ErrNoRows):
		return r.Get(ctx, t.UserID, t.YouTubeVideoID)
	default:
		return nil, err
	}
}

func (r *TranscriptRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transcripts WHERE user_id=$1`, userID)
	return err
}

func scanTranscript(s rowScanner) (*model.Transcript, error) {
	t := &model.Transcript{}
	var segments []byte
	if err := s.Scan(&t.ID, &t.UserID, &t.VideoID, &t.YouTubeVideoID, &t.Content, &t.Source, &t.Language, &segments, &t.CreatedAt); err != nil {
		return nil, err
	}
	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &t.Segments); err != nil {
			return nil, err
		}
	}
	return t, nil
}
