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

const dealColumns = `id, user_id, brand_name, brand_email, contact_name, contact_email, subject, status, summary,
	extracted_data, gmail_thread_id, proposed_rate, deliverables, source, created_at, updated_at`

type DealRepository struct{ db *sql.DB }

func NewDealRepository(db *sql.DB) repository.IDeal {
	return &DealRepository{db: db}
}

func (r *DealRepository) FindByThread(ctx context.Context, userID, threadID string) (*model.Deal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE user_id=$1 AND gmail_thread_id=$2`, userID, threadID)
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// InsertIfAbsent relies on uq_deals_user_thread so two concurrent ingestions of
// the same thread produce one deal.
func (r *DealRepository) InsertIfAbsent(ctx context.Context, d *model.Deal) (string, bool, error) {
	if d.GmailThreadID == nil {
		if err := r.Create(ctx, d); err != nil {
			return "", false, err
		}
		return d.ID, true, nil
	}
	r.prepare(d)
	q := `INSERT INTO deals (` + dealColumns + `)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		  ON CONFLICT (user_id, gmail_thread_id) WHERE gmail_thread_id IS NOT NULL DO NOTHING
		  RETURNING id`
	var id string
	err := r.db.QueryRowContext(ctx, q, r.args(d)...).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM deals WHERE user_id=$1 AND gmail_thread_id=$2`, d.UserID, *d.GmailThreadID).Scan(&id); err != nil {
		return "", false, err
	}
	return id, false, nil
}

func (r *DealRepository) Create(ctx context.Context, d *model.Deal) error {
	r.prepare(d)
	_, err := r.db.ExecContext(ctx, `INSERT INTO deals (`+dealColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`, r.args(d)...)
	return err
}

func (r *DealRepository) Touch(ctx context.Context, userID, dealID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE deals SET updated_at=$3 WHERE id=$1 AND user_id=$2`, dealID, userID, at.UTC())
	return err
}

func (r *DealRepository) UpdateStatus(ctx context.Context, userID, dealID string, status model.DealStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE deals SET status=$3, updated_at=$4 WHERE id=$1 AND user_id=$2`,
		dealID, userID, status, time.Now().UTC())
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *DealRepository) List(ctx context.Context, userID string) ([]model.Deal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE user_id=$1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := []model.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

func (r *DealRepository) Exists(ctx context.Context, userID, dealID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM deals WHERE id=$1 AND user_id=$2)`, dealID, userID).Scan(&ok)
	return ok, err
}

func (r *DealRepository) MessageExists(ctx context.Context, userID, gmailMessageID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM deal_messages m JOIN deals d ON d.id = m.deal_id
		WHERE d.user_id=$1 AND m.gmail_message_id=$2)`, userID, gmailMessageID).Scan(&ok)
	return ok, err
}

func (r *DealRepository) InsertMessage(ctx context.Context, m *model.DealMessage) (bool, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = nowIfZero(m.CreatedAt)
	if m.Timestamp.IsZero() {
		m.Timestamp = m.CreatedAt
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO deal_messages (id, deal_id, content, sender, subject, gmail_message_id, gmail_thread_id, timestamp, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (gmail_message_id) WHERE gmail_message_id IS NOT NULL DO NOTHING`,
		m.ID, m.DealID, m.Content, m.Sender, m.Subject, m.GmailMessageID, m.GmailThreadID, m.Timestamp.UTC(), m.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteIngested removes every mailbox-sourced deal and its messages. Manual deals stay.
func (r *DealRepository) DeleteIngested(ctx context.Context, userID string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM deal_messages WHERE deal_id IN (SELECT id FROM deals WHERE user_id=$1 AND source=$2)`,
		userID, model.DealSourceGmail); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM deals WHERE user_id=$1 AND source=$2`, userID, model.DealSourceGmail); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *DealRepository) prepare(d *model.Deal) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = model.DealNew
	}
	if d.Source == "" {
		d.Source = model.DealSourceManual
	}
	if d.Deliverables == nil {
		d.Deliverables = []string{}
	}
	d.UpdatedAt = nowIfZero(d.UpdatedAt)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = d.UpdatedAt
	}
}

func (r *DealRepository) args(d *model.Deal) []any {
	var extracted any
	if len(d.ExtractedData) > 0 {
		extracted = []byte(d.ExtractedData)
	}
	return []any{d.ID, d.UserID, d.BrandName, d.BrandEmail, d.ContactName, d.ContactEmail, d.Subject, d.Status, d.Summary,
		extracted, d.GmailThreadID, d.ProposedRate, pq.Array(d.Deliverables), d.Source, d.CreatedAt, d.UpdatedAt}
}

func scanDeal(s rowScanner) (*model.Deal, error) {
	d := &model.Deal{}
	var extracted []byte
	var deliverables pq.StringArray
	if err := s.Scan(&d.ID, &d.UserID, &d.BrandName, &d.BrandEmail, &d.ContactName, &d.ContactEmail, &d.Subject, &d.Status, &d.Summary,
		&extracted, &d.GmailThreadID, &d.ProposedRate, &deliverables, &d.Source, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if len(extracted) > 0 {
		d.ExtractedData = extracted
	}
	d.Deliverables = []string(deliverables)
	if d.Deliverables == nil {
		d.Deliverables = []string{}
	}
	return d, nil
}
