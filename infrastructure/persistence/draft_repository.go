package persistence

import (
	"context"
	"database/sql"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"github.com/google/uuid"
)

type DraftRepository struct{ db *sql.DB }

func NewDraftRepository(db *sql.DB) repository.IDraft {
	return &DraftRepository{db: db}
}

// InsertBatch writes all drafts in one transaction and returns how many were stored.
func (r *DraftRepository) InsertBatch(ctx context.Context, drafts []model.Draft) (n int, err error) {
	if len(drafts) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO drafts (id, user_id, title, content, platform, type, status, related_video_id, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i := range drafts {
		d := &drafts[i]
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if d.Status == "" {
			d.Status = model.DraftStatusDraft
		}
		if d.Version == 0 {
			d.Version = 1
		}
		d.CreatedAt = nowIfZero(d.CreatedAt)
		if _, err = stmt.ExecContext(ctx, d.ID, d.UserID, d.Title, d.Content, d.Platform, d.Type, d.Status, d.RelatedVideoID, d.Version, d.CreatedAt); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(drafts), nil
}
