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

const integrationColumns = `id, user_id, provider, connected, channel_id, channel_name, channel_thumbnail, subscribers,
	access_token_encrypted, refresh_token_encrypted, token_key_id, token_expiry, last_sync_at, filter_keywords, created_at, updated_at`

type IntegrationRepository struct{ db *sql.DB }

func NewIntegrationRepository(db *sql.DB) repository.IIntegration {
	return &IntegrationRepository{db: db}
}

func (r *IntegrationRepository) Get(ctx context.Context, userID string, provider model.Provider) (*model.Integration, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+integrationColumns+` FROM integrations WHERE user_id=$1 AND provider=$2`, userID, provider)
	i := &model.Integration{}
	var keywords pq.StringArray
	if err := row.Scan(&i.ID, &i.UserID, &i.Provider, &i.Connected, &i.ChannelID, &i.ChannelName, &i.ChannelThumbnail, &i.Subscribers,
		&i.AccessTokenEncrypted, &i.RefreshTokenEncrypted, &i.TokenKeyID, &i.TokenExpiry, &i.LastSyncAt, &keywords, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	i.FilterKeywords = []string(keywords)
	return i, nil
}

// Upsert replaces credentials and identity for (user, provider). A nil refresh token keeps the stored one,
// since providers may omit it on re-consent.
func (r *IntegrationRepository) Upsert(ctx context.Context, i *model.Integration) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.UpdatedAt = nowIfZero(i.UpdatedAt)
	if i.CreatedAt.IsZero() {
		i.CreatedAt = i.UpdatedAt
	}
	q := `INSERT INTO integrations (id, user_id, provider, connected, channel_id, channel_name, channel_thumbnail, subscribers,
			access_token_encrypted, refresh_token_encrypted, token_key_id, token_expiry, filter_keywords, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		  ON CONFLICT (user_id, provider) DO UPDATE SET
			connected=EXCLUDED.connected,
			channel_id=EXCLUDED.channel_id,
			channel_name=EXCLUDED.channel_name,
			channel_thumbnail=EXCLUDED.channel_thumbnail,
			subscribers=EXCLUDED.subscribers,
			access_token_encrypted=EXCLUDED.access_token_encrypted,
			refresh_token_encrypted=COALESCE(EXCLUDED.refresh_token_encrypted, integrations.refresh_token_encrypted),
			token_key_id=EXCLUDED.token_key_id,
			token_expiry=EXCLUDED.token_expiry,
			updated_at=EXCLUDED.updated_at`
	keywords := i.FilterKeywords
	if keywords == nil {
		keywords = []string{}
	}
	_, err := r.db.ExecContext(ctx, q, i.ID, i.UserID, i.Provider, i.Connected, i.ChannelID, i.ChannelName, i.ChannelThumbnail, i.Subscribers,
		i.AccessTokenEncrypted, i.RefreshTokenEncrypted, i.TokenKeyID, i.TokenExpiry, pq.Array(keywords), i.CreatedAt, i.UpdatedAt)
	return err
}

func (r *IntegrationRepository) UpdateTokens(ctx context.Context, userID string, provider model.Provider, accessEnc string, refreshEnc *string, keyID string, expiry time.Time) error {
	q := `UPDATE integrations SET access_token_encrypted=$3,
			refresh_token_encrypted=COALESCE($4, refresh_token_encrypted),
			token_key_id=$5, token_expiry=$6, updated_at=$7
		  WHERE user_id=$1 AND provider=$2`
	res, err := r.db.ExecContext(ctx, q, userID, provider, accessEnc, refreshEnc, keyID, expiry.UTC(), time.Now().UTC())
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *IntegrationRepository) MarkSynced(ctx context.Context, userID string, provider model.Provider, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE integrations SET last_sync_at=$3, updated_at=$3 WHERE user_id=$1 AND provider=$2`, userID, provider, at.UTC())
	return err
}

func (r *IntegrationRepository) UpdateFilterKeywords(ctx context.Context, userID string, provider model.Provider, keywords []string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE integrations SET filter_keywords=$3, updated_at=$4 WHERE user_id=$1 AND provider=$2`,
		userID, provider, pq.Array(keywords), time.Now().UTC())
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *IntegrationRepository) Delete(ctx context.Context, userID string, provider model.Provider) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM integrations WHERE user_id=$1 AND provider=$2`, userID, provider)
	return err
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
