package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"
)

type IDealUsecase interface {
	List(ctx context.Context, userID string) ([]model.Deal, error)
	CreateManual(ctx context.Context, userID string, req *dto.CreateDealRequest) (*model.Deal, error)
	UpdateStatus(ctx context.Context, userID, dealID string, status model.DealStatus) error
	AddMessage(ctx context.Context, userID, dealID string, req *dto.AddDealMessageRequest) (*model.DealMessage, error)
}

type dealUsecase struct {
	deals repository.IDeal
	now   func() time.Time
}

func NewDealUsecase(deals repository.IDeal, now func() time.Time) IDealUsecase {
	if now == nil {
		now = time.Now
	}
	return &dealUsecase{deals: deals, now: now}
}

func (u *dealUsecase) List(ctx context.Context, userID string) ([]model.Deal, error) {
	return u.deals.List(ctx, userID)
}

func (u *dealUsecase) CreateManual(ctx context.Context, userID string, req *dto.CreateDealRequest) (*model.Deal, error) {
	if req == nil || strings.TrimSpace(req.BrandName) == "" {
		return nil, fmt.Errorf("%w: brand_name is required", model.ErrInvalidInput)
	}
	now := u.now().UTC()
	deal := &model.Deal{
		UserID:       userID,
		BrandName:    strings.TrimSpace(req.BrandName),
		BrandEmail:   req.BrandEmail,
		ContactName:  req.ContactName,
		ContactEmail: req.BrandEmail,
		Subject:      req.Subject,
		Status:       model.DealNew,
		Summary:      req.Summary,
		ProposedRate: req.ProposedRate,
		Deliverables: req.Deliverables,
		Source:       model.DealSourceManual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.deals.Create(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (u *dealUsecase) UpdateStatus(ctx context.Context, userID, dealID string, status model.DealStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidInput, status)
	}
	return u.deals.UpdateStatus(ctx, userID, dealID, status)
}

func (u *dealUsecase) AddMessage(ctx context.Context, userID, dealID string, req *dto.AddDealMessageRequest) (*model.DealMessage, error) {
	if req == nil || strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Sender) == "" {
		return nil, fmt.Errorf("%w: content and sender are required", model.ErrInvalidInput)
	}
	ok, err := u.deals.Exists(ctx, userID, dealID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("deal %s: %w", dealID, model.ErrNotFound)
	}
	now := u.now().UTC()
	msg := &model.DealMessage{
		DealID:    dealID,
		Content:   req.Content,
		Sender:    req.Sender,
		Subject:   req.Subject,
		Timestamp: now,
		CreatedAt: now,
	}
	if _, err := u.deals.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := u.deals.Touch(ctx, userID, dealID, now); err != nil {
		return nil, err
	}
	return msg, nil
}
