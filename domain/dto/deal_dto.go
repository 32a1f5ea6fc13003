package dto

import "creator-ops/domain/model"

// CreateDealRequest creates a deal by hand.
type CreateDealRequest struct {
	BrandName    string   `json:"brand_name" binding:"required"`
	BrandEmail   *string  `json:"brand_email,omitempty"`
	ContactName  *string  `json:"contact_name,omitempty"`
	Subject      *string  `json:"subject,omitempty"`
	Summary      *string  `json:"summary,omitempty"`
	ProposedRate *float64 `json:"proposed_rate,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
}

// UpdateDealStatusRequest moves a deal to another stage.
type UpdateDealStatusRequest struct {
	Status model.DealStatus `json:"status" binding:"required"`
}

// AddDealMessageRequest appends a hand-written message to a deal.
type AddDealMessageRequest struct {
	Content string  `json:"content" binding:"required"`
	Sender  string  `json:"sender" binding:"required"`
	Subject *string `json:"subject,omitempty"`
}
