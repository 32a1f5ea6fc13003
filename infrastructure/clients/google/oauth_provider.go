package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/youtube/v3"
)

// IdentifyFunc fetches the account identity behind a fresh access token.
type IdentifyFunc func(ctx context.Context, accessToken string) (*model.AccountIdentity, error)

// OAuthProvider runs Google's authorization-code and refresh grants for one integration.
type OAuthProvider struct {
	name       model.Provider
	config     *oauth2.Config
	identify   IdentifyFunc
	httpClient *http.Client
}

func NewOAuthProvider(name model.Provider, config *oauth2.Config, identify IdentifyFunc) *OAuthProvider {
	return &OAuthProvider{name: name, config: config, identify: identify}
}

// WithHTTPClient routes token requests through client.
func (p *OAuthProvider) WithHTTPClient(client *http.Client) *OAuthProvider {
	p.httpClient = client
	return p
}

// NewYouTubeProvider requests read-only channel access and identifies the user's channel.
func NewYouTubeProvider(clientID, clientSecret, redirectURL string, clients repository.YouTubeFactory) repository.IOAuthProvider {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     googleoauth.Endpoint,
	}
	return NewOAuthProvider(model.ProviderYouTube, cfg, func(ctx context.Context, accessToken string) (*model.AccountIdentity, error) {
		client, err := clients(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		return client.GetMyChannel(ctx)
	})
}

// NewGmailProvider requests read-only mailbox access; the mailbox address is the account id.
func NewGmailProvider(clientID, clientSecret, redirectURL string, clients repository.GmailFactory) repository.IOAuthProvider {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     googleoauth.Endpoint,
	}
	return NewOAuthProvider(model.ProviderGmail, cfg, func(ctx context.Context, accessToken string) (*model.AccountIdentity, error) {
		client, err := clients(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		email, err := client.GetProfileEmail(ctx)
		if err != nil {
			return nil, err
		}
		return &model.AccountIdentity{AccountID: email, DisplayName: email}, nil
	})
}

func (p *OAuthProvider) Name() model.Provider { return p.name }

// AuthCodeURL asks for offline access with forced consent so a refresh token is always issued.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*repository.OAuthTokens, error) {
	tok, err := p.config.Exchange(p.withClient(ctx), code)
	if err != nil {
		return nil, p.grantError("token exchange", err)
	}
	return p.tokens(tok, ""), nil
}

func (p *OAuthProvider) Refresh(ctx context.Context, refreshToken string) (*repository.OAuthTokens, error) {
	tok, err := p.config.TokenSource(p.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, p.grantError("token refresh", err)
	}
	return p.tokens(tok, refreshToken), nil
}

func (p *OAuthProvider) Identify(ctx context.Context, accessToken string) (*model.AccountIdentity, error) {
	return p.identify(ctx, accessToken)
}

func (p *OAuthProvider) withClient(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// tokens reports a refresh token only when the provider issued a new one.
func (p *OAuthProvider) tokens(tok *oauth2.Token, previousRefresh string) *repository.OAuthTokens {
	out := &repository.OAuthTokens{AccessToken: tok.AccessToken, Expiry: tok.Expiry}
	if tok.RefreshToken != previousRefresh {
		out.RefreshToken = tok.RefreshToken
	}
	if out.Expiry.IsZero() {
		out.Expiry = time.Now().Add(time.Hour)
	}
	return out
}

func (p *OAuthProvider) grantError(op string, err error) error {
	pe := &model.ProviderError{Provider: p.name, Op: op, Err: err}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response != nil {
			pe.Status = re.Response.StatusCode
		}
		pe.Description = re.ErrorDescription
		if pe.Description == "" {
			pe.Description = re.ErrorCode
		}
		if pe.Description == "" {
			pe.Description = string(re.Body)
		}
	}
	return pe
}
