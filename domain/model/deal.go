package model

import (
	"encoding/json"
	"time"
)

// DealStatus is the pipeline stage of a brand deal.
type DealStatus string

const (
	DealNew         DealStatus = "New"
	DealNegotiating DealStatus = "Negotiating"
	DealClosed      DealStatus = "Closed"
)

// Valid reports whether s is a known pipeline stage.
func (s DealStatus) Valid() bool {
	switch s {
	case DealNew, DealNegotiating, DealClosed:
		return true
	}
	return false
}

const (
	DealSourceGmail  = "gmail"
	DealSourceManual = "manual"
)

// Deal is a brand-partnership opportunity. GmailThreadID is nil for deals created by hand.
type Deal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	BrandName     string          `json:"brand_name"`
	BrandEmail    *string         `json:"brand_email,omitempty"`
	ContactName   *string         `json:"contact_name,omitempty"`
	ContactEmail  *string         `json:"contact_email,omitempty"`
	Subject       *string         `json:"subject,omitempty"`
	Status        DealStatus      `json:"status"`
	Summary       *string         `json:"summary,omitempty"`
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
	GmailThreadID *string         `json:"gmail_thread_id,omitempty"`
	ProposedRate  *float64        `json:"proposed_rate,omitempty"`
	Deliverables  []string        `json:"deliverables"`
	Source        string          `json:"source"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DealMessage is one message attached to a deal thread.
type DealMessage struct {
	ID             string    `json:"id"`
	DealID         string    `json:"deal_id"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"`
	Subject        *string   `json:"subject,omitempty"`
	GmailMessageID *string   `json:"gmail_message_id,omitempty"`
	GmailThreadID  *string   `json:"gmail_thread_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	CreatedAt      time.Time `json:"created_at"`
}

// DealExtraction holds the structured attributes pulled out of a first message.
type DealExtraction struct {
	Summary      string   `json:"summary"`
	ContactName  string   `json:"contact_name,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	Budget       string   `json:"budget,omitempty"`
	Links        []string `json:"links,omitempty"`
	NextSteps    string   `json:"next_steps,omitempty"`
}
