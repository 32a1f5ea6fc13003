package repository

import (
	"context"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
)

// IGmail is a Gmail API client bound to one user's access token.
type IGmail interface {
	GetProfileEmail(ctx context.Context) (string, error)
	SearchMessages(ctx context.Context, query string, max int64) ([]dto.MailMessageRef, error)
	GetMessageMetadata(ctx context.Context, id string) (*dto.MailMessageMeta, error)
	GetMessage(ctx context.Context, id string) (*dto.MailMessage, error)
}

// GmailFactory builds a client for an access token.
type GmailFactory func(ctx context.Context, accessToken string) (IGmail, error)

// IDeal persists deals and their messages.
type IDeal interface {
	FindByThread(ctx context.Context, userID, threadID string) (*model.Deal, error)
	// InsertIfAbsent creates the deal unless one already exists for its thread.
	// It returns the id of the stored deal and whether this call created it.
	InsertIfAbsent(ctx context.Context, deal *model.Deal) (string, bool, error)
	Create(ctx context.Context, deal *model.Deal) error
	Touch(ctx context.Context, userID, dealID string, at time.Time) error
	UpdateStatus(ctx context.Context, userID, dealID string, status model.DealStatus) error
	List(ctx context.Context, userID string) ([]model.Deal, error)
	Exists(ctx context.Context, userID, dealID string) (bool, error)

	MessageExists(ctx context.Context, userID, gmailMessageID string) (bool, error)
	// InsertMessage is a no-op for an already stored provider message id.
	InsertMessage(ctx context.Context, msg *model.DealMessage) (bool, error)
	DeleteIngested(ctx context.Context, userID string) error
}
