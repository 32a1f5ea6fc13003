package dto

import (
	"time"

	"creator-ops/domain/model"
)

// StartOAuthRequest is the body of the OAuth start call.
type StartOAuthRequest struct {
	Redirect string `json:"redirect"`
}

// StartOAuthResponse carries the provider authorization URL.
type StartOAuthResponse struct {
	URL string `json:"url"`
}

// OAuthState is the self-describing payload carried through the provider round trip.
type OAuthState struct {
	UserID   string `json:"userId"`
	Redirect string `json:"redirect"`
	IssuedAt int64  `json:"iat"`
	Sig      string `json:"sig,omitempty"`
}

// CallbackQuery holds the outcome flags appended to the return URL.
type CallbackQuery struct {
	YouTubeConnected bool   `url:"youtube_connected,omitempty"`
	YouTubeError     string `url:"youtube_error,omitempty"`
	GmailConnected   bool   `url:"gmail_connected,omitempty"`
	GmailError       string `url:"gmail_error,omitempty"`
}

// CallbackResult tells the handler where to send the browser after a callback.
type CallbackResult struct {
	Provider    model.Provider
	RedirectURL string
	Connected   bool
	Error       string
}

// IntegrationStatus is the token-free view of an integration.
type IntegrationStatus struct {
	Provider         model.Provider `json:"provider"`
	Connected        bool           `json:"connected"`
	ChannelID        *string        `json:"channel_id,omitempty"`
	ChannelName      *string        `json:"channel_name,omitempty"`
	ChannelThumbnail *string        `json:"channel_thumbnail,omitempty"`
	Subscribers      *int64         `json:"subscribers,omitempty"`
	LastSyncAt       *time.Time     `json:"last_sync_at,omitempty"`
	FilterKeywords   []string       `json:"filter_keywords"`
}

// UpdateKeywordsRequest replaces an integration's filter keywords.
type UpdateKeywordsRequest struct {
	Keywords []string `json:"keywords" binding:"required"`
}
