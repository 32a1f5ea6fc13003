package model

import "time"

// Provider identifies an external OAuth provider an integration is bound to.
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderGmail   Provider = "gmail"
)

// ParseProvider validates a provider name taken from a route or payload.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderYouTube, ProviderGmail:
		return Provider(s), nil
	}
	return "", ErrUnknownProvider
}

// Integration stores the OAuth credential set and sync metadata for one (user, provider) pair.
type Integration struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"user_id"`
	Provider              Provider   `json:"provider"`
	Connected             bool       `json:"connected"`
	ChannelID             *string    `json:"channel_id,omitempty"`
	ChannelName           *string    `json:"channel_name,omitempty"`
	ChannelThumbnail      *string    `json:"channel_thumbnail,omitempty"`
	Subscribers           *int64     `json:"subscribers,omitempty"`
	AccessTokenEncrypted  *string    `json:"-"`
	RefreshTokenEncrypted *string    `json:"-"`
	TokenKeyID            *string    `json:"-"`
	TokenExpiry           *time.Time `json:"token_expiry,omitempty"`
	LastSyncAt            *time.Time `json:"last_sync_at,omitempty"`
	FilterKeywords        []string   `json:"filter_keywords"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// HasRefreshToken reports whether the provider ever issued a refresh token.
func (i *Integration) HasRefreshToken() bool {
	return i.RefreshTokenEncrypted != nil && *i.RefreshTokenEncrypted != ""
}

// AccountIdentity is the minimal profile fetched right after a code exchange.
type AccountIdentity struct {
	AccountID   string
	DisplayName string
	Thumbnail   string
	Subscribers *int64
}
