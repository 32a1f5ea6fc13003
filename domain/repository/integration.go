package repository

import (
	"context"
	"time"

	"creator-ops/domain/model"
)

// IIntegration persists OAuth integrations keyed by (user, provider).
type IIntegration interface {
	// Get returns nil without error when the user never connected the provider.
	Get(ctx context.Context, userID string, provider model.Provider) (*model.Integration, error)
	Upsert(ctx context.Context, integration *model.Integration) error
	UpdateTokens(ctx context.Context, userID string, provider model.Provider, accessEnc string, refreshEnc *string, keyID string, expiry time.Time) error
	MarkSynced(ctx context.Context, userID string, provider model.Provider, at time.Time) error
	UpdateFilterKeywords(ctx context.Context, userID string, provider model.Provider, keywords []string) error
	Delete(ctx context.Context, userID string, provider model.Provider) error
}

// IOAuthProvider performs the authorization-code and refresh grants for one provider.
type IOAuthProvider interface {
	Name() model.Provider
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*OAuthTokens, error)
	Identify(ctx context.Context, accessToken string) (*model.AccountIdentity, error)
}

// OAuthTokens is the result of a token grant. RefreshToken is empty when none was issued.
type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// ITokenCipher seals tokens for storage.
type ITokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(blob string) (string, error)
	PrimaryKeyID() string
	NeedsRotation(blob string) bool
}

// ILocker serialises work per key.
type ILocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
