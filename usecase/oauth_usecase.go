package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/logger"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTokenSkew = 60 * time.Second
	defaultStateTTL  = 15 * time.Minute
)

// ICredentials hands out a usable access token for a connected integration.
type ICredentials interface {
	Authorize(ctx context.Context, userID string, provider model.Provider) (*model.Integration, string, error)
}

// IOAuthUsecase covers the connect / refresh / disconnect lifecycle of provider credentials.
type IOAuthUsecase interface {
	ICredentials
	Start(ctx context.Context, userID string, provider model.Provider, returnURL string) (string, error)
	// Callback never fails: errors are reported through the result's redirect.
	Callback(ctx context.Context, provider model.Provider, code, state, providerError string) *dto.CallbackResult
	EnsureFreshToken(ctx context.Context, integration *model.Integration) (string, error)
	Status(ctx context.Context, userID string, provider model.Provider) (*dto.IntegrationStatus, error)
	Disconnect(ctx context.Context, userID string, provider model.Provider, deleteData bool) error
	UpdateFilterKeywords(ctx context.Context, userID string, provider model.Provider, keywords []string) ([]string, error)
}

type OAuthConfig struct {
	StateSecret    string
	FrontendURL    string
	AllowedOrigins []string
	TokenSkew      time.Duration
	StateTTL       time.Duration
}

// OAuthDeps are the collaborators of the OAuth usecase.
type OAuthDeps struct {
	Providers    []repository.IOAuthProvider
	Integrations repository.IIntegration
	Cipher       repository.ITokenCipher
	Locker       repository.ILocker
	Videos       repository.IVideo
	Comments     repository.IComment
	Transcripts  repository.ITranscript
	Deals        repository.IDeal
	Now          func() time.Time
}

type oauthUsecase struct {
	providers    map[model.Provider]repository.IOAuthProvider
	integrations repository.IIntegration
	cipher       repository.ITokenCipher
	locker       repository.ILocker
	videos       repository.IVideo
	comments     repository.IComment
	transcripts  repository.ITranscript
	deals        repository.IDeal
	cfg          OAuthConfig
	returnURLs   returnURLPolicy
	now          func() time.Time
	refreshes    singleflight.Group
}

func NewOAuthUsecase(deps OAuthDeps, cfg OAuthConfig) IOAuthUsecase {
	if cfg.TokenSkew <= 0 {
		cfg.TokenSkew = defaultTokenSkew
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = defaultStateTTL
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	providers := make(map[model.Provider]repository.IOAuthProvider, len(deps.Providers))
	for _, p := range deps.Providers {
		providers[p.Name()] = p
	}
	return &oauthUsecase{
		providers:    providers,
		integrations: deps.Integrations,
		cipher:       deps.Cipher,
		locker:       deps.Locker,
		videos:       deps.Videos,
		comments:     deps.Comments,
		transcripts:  deps.Transcripts,
		deals:        deps.Deals,
		cfg:          cfg,
		returnURLs:   newReturnURLPolicy(cfg.FrontendURL, cfg.AllowedOrigins),
		now:          now,
	}
}

func (u *oauthUsecase) provider(p model.Provider) (repository.IOAuthProvider, error) {
	op, ok := u.providers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownProvider, p)
	}
	return op, nil
}

func (u *oauthUsecase) Start(ctx context.Context, userID string, provider model.Provider, returnURL string) (string, error) {
	if userID == "" {
		return "", model.ErrUnauthenticated
	}
	op, err := u.provider(provider)
	if err != nil {
		return "", err
	}
	state, err := encodeState(u.cfg.StateSecret, userID, u.returnURLs.resolve(returnURL), u.now())
	if err != nil {
		return "", err
	}
	return op.AuthCodeURL(state), nil
}

func (u *oauthUsecase) Callback(ctx context.Context, provider model.Provider, code, state, providerError string) *dto.CallbackResult {
	res := &dto.CallbackResult{Provider: provider, RedirectURL: u.returnURLs.fallback}
	log := logger.GetLogger().WithField("provider", provider)

	s, err := decodeState(u.cfg.StateSecret, state, u.now(), u.cfg.StateTTL)
	if err != nil {
		log.WithField("error", err).Warn("Rejected oauth state")
		return u.finish(res, "Invalid state")
	}
	res.RedirectURL = u.returnURLs.resolve(s.Redirect)
	log = log.WithField("user_id", s.UserID)

	if providerError != "" {
		log.WithField("error", providerError).Warn("Provider denied consent")
		return u.finish(res, providerError)
	}
	if code == "" {
		return u.finish(res, "No authorization code received")
	}

	if err := u.connect(ctx, s.UserID, provider, code); err != nil {
		log.WithField("error", err).Error("Error while connecting integration")
		return u.finish(res, err.Error())
	}
	log.Info("Integration connected")
	res.Connected = true
	return u.finish(res, "")
}

func (u *oauthUsecase) connect(ctx context.Context, userID string, provider model.Provider, code string) error {
	op, err := u.provider(provider)
	if err != nil {
		return err
	}
	tokens, err := op.Exchange(ctx, code)
	if err != nil {
		return err
	}
	identity, err := op.Identify(ctx, tokens.AccessToken)
	if err != nil {
		return err
	}

	accessEnc, err := u.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return err
	}
	var refreshEnc *string
	if tokens.RefreshToken != "" {
		enc, err := u.cipher.Encrypt(tokens.RefreshToken)
		if err != nil {
			return err
		}
		refreshEnc = &enc
	}
	keyID := u.cipher.PrimaryKeyID()
	expiry := tokens.Expiry.UTC()
	now := u.now().UTC()

	integration := &model.Integration{
		UserID:                userID,
		Provider:              provider,
		Connected:             true,
		ChannelID:             optional(identity.AccountID),
		ChannelName:           optional(identity.DisplayName),
		ChannelThumbnail:      optional(identity.Thumbnail),
		Subscribers:           identity.Subscribers,
		AccessTokenEncrypted:  &accessEnc,
		RefreshTokenEncrypted: refreshEnc,
		TokenKeyID:            &keyID,
		TokenExpiry:           &expiry,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	return u.integrations.Upsert(ctx, integration)
}

// finish appends the outcome flags to the return URL.
func (u *oauthUsecase) finish(res *dto.CallbackResult, errMsg string) *dto.CallbackResult {
	res.Error = errMsg
	var q dto.CallbackQuery
	switch res.Provider {
	case model.ProviderYouTube:
		q.YouTubeConnected = res.Connected
		q.YouTubeError = errMsg
	case model.ProviderGmail:
		q.GmailConnected = res.Connected
		q.GmailError = errMsg
	}
	values, err := query.Values(q)
	if err != nil {
		return res
	}
	target, err := url.Parse(res.RedirectURL)
	if err != nil {
		return res
	}
	merged := target.Query()
	for k, vs := range values {
		for _, v := range vs {
			merged.Set(k, v)
		}
	}
	target.RawQuery = merged.Encode()
	res.RedirectURL = target.String()
	return res
}

func (u *oauthUsecase) Authorize(ctx context.Context, userID string, provider model.Provider) (*model.Integration, string, error) {
	if _, err := u.provider(provider); err != nil {
		return nil, "", err
	}
	integration, err := u.integrations.Get(ctx, userID, provider)
	if err != nil {
		return nil, "", err
	}
	if integration == nil || !integration.Connected {
		return nil, "", fmt.Errorf("%s: %w", provider, model.ErrNotConnected)
	}
	token, err := u.EnsureFreshToken(ctx, integration)
	if err != nil {
		return nil, "", err
	}
	return integration, token, nil
}

// EnsureFreshToken returns the stored access token while it is valid beyond the skew window,
// otherwise refreshes it. Concurrent callers for one (user, provider) share a single refresh.
func (u *oauthUsecase) EnsureFreshToken(ctx context.Context, integration *model.Integration) (string, error) {
	if integration == nil || !integration.Connected {
		return "", model.ErrNotConnected
	}
	if !u.expired(integration) {
		return u.cipher.Decrypt(*integration.AccessTokenEncrypted)
	}
	key := integration.UserID + ":" + string(integration.Provider)
	// The shared refresh must not die with whichever caller happened to start it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := u.refreshes.Do(key, func() (any, error) {
		return u.refreshLocked(shared, integration.UserID, integration.Provider)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (u *oauthUsecase) expired(i *model.Integration) bool {
	if i.AccessTokenEncrypted == nil || *i.AccessTokenEncrypted == "" || i.TokenExpiry == nil {
		return true
	}
	return !i.TokenExpiry.After(u.now().Add(u.cfg.TokenSkew))
}

func (u *oauthUsecase) refreshLocked(ctx context.Context, userID string, provider model.Provider) (string, error) {
	unlock, err := u.locker.Lock(ctx, "token-refresh:"+userID+":"+string(provider))
	if err != nil {
		return "", err
	}
	defer unlock()

	// Another process may have refreshed while we waited for the lease.
	current, err := u.integrations.Get(ctx, userID, provider)
	if err != nil {
		return "", err
	}
	if current == nil || !current.Connected {
		return "", model.ErrNotConnected
	}
	if !u.expired(current) {
		return u.cipher.Decrypt(*current.AccessTokenEncrypted)
	}
	if !current.HasRefreshToken() {
		return "", model.ErrNoRefreshToken
	}

	refreshToken, err := u.cipher.Decrypt(*current.RefreshTokenEncrypted)
	if err != nil {
		return "", err
	}
	op, err := u.provider(provider)
	if err != nil {
		return "", err
	}
	tokens, err := op.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	accessEnc, err := u.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return "", err
	}
	var refreshEnc *string
	switch {
	case tokens.RefreshToken != "":
		refreshToken = tokens.RefreshToken
		fallthrough
	case u.cipher.NeedsRotation(*current.RefreshTokenEncrypted):
		enc, err := u.cipher.Encrypt(refreshToken)
		if err != nil {
			return "", err
		}
		refreshEnc = &enc
	}
	if err := u.integrations.UpdateTokens(ctx, userID, provider, accessEnc, refreshEnc, u.cipher.PrimaryKeyID(), tokens.Expiry); err != nil {
		return "", err
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"user_id":  userID,
		"provider": provider,
		"rotated":  refreshEnc != nil,
	}).Info("Access token refreshed")
	return tokens.AccessToken, nil
}

func (u *oauthUsecase) Status(ctx context.Context, userID string, provider model.Provider) (*dto.IntegrationStatus, error) {
	if _, err := u.provider(provider); err != nil {
		return nil, err
	}
	integration, err := u.integrations.Get(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	status := &dto.IntegrationStatus{Provider: provider, FilterKeywords: []string{}}
	if integration == nil {
		return status, nil
	}
	status.Connected = integration.Connected
	status.ChannelID = integration.ChannelID
	status.ChannelName = integration.ChannelName
	status.ChannelThumbnail = integration.ChannelThumbnail
	status.Subscribers = integration.Subscribers
	status.LastSyncAt = integration.LastSyncAt
	if len(integration.FilterKeywords) > 0 {
		status.FilterKeywords = integration.FilterKeywords
	}
	return status, nil
}

func (u *oauthUsecase) Disconnect(ctx context.Context, userID string, provider model.Provider, deleteData bool) error {
	if _, err := u.provider(provider); err != nil {
		return err
	}
	// Synced data goes first so a failed cascade leaves the credentials usable for a retry.
	if deleteData {
		if err := u.deleteSyncedData(ctx, userID, provider); err != nil {
			return err
		}
	}
	return u.integrations.Delete(ctx, userID, provider)
}

func (u *oauthUsecase) deleteSyncedData(ctx context.Context, userID string, provider model.Provider) error {
	switch provider {
	case model.ProviderYouTube:
		if err := u.comments.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		if err := u.transcripts.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		return u.videos.DeleteAllForUser(ctx, userID)
	case model.ProviderGmail:
		return u.deals.DeleteIngested(ctx, userID)
	}
	return nil
}

func (u *oauthUsecase) UpdateFilterKeywords(ctx context.Context, userID string, provider model.Provider, keywords []string) ([]string, error) {
	if _, err := u.provider(provider); err != nil {
		return nil, err
	}
	cleaned := normalizeKeywords(keywords)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one keyword is required", model.ErrInvalidInput)
	}
	err := u.integrations.UpdateFilterKeywords(ctx, userID, provider, cleaned)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", provider, model.ErrNotConnected)
	}
	if err != nil {
		return nil, err
	}
	return cleaned, nil
}

// normalizeKeywords trims, drops empties and removes case-insensitive duplicates, keeping order.
func normalizeKeywords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.Join(strings.Fields(k), " ")
		if k == "" {
			continue
		}
		lower := strings.ToLower(k)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, k)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
