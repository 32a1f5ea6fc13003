package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"creator-ops/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const redirectURL = "https://api.example.com/auth/youtube/callback"

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OAuthProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  redirectURL,
		Scopes:       []string{"scope-a"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/o/oauth2/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	identify := func(ctx context.Context, accessToken string) (*model.AccountIdentity, error) {
		return &model.AccountIdentity{AccountID: "acct-for-" + accessToken}, nil
	}
	return NewOAuthProvider(model.ProviderYouTube, cfg, identify).WithHTTPClient(srv.Client())
}

func TestAuthCodeURL(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	raw := p.AuthCodeURL("opaque-state")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "opaque-state", q.Get("state"))
	assert.Equal(t, redirectURL, q.Get("redirect_uri"))
	assert.Equal(t, "scope-a", q.Get("scope"))
}

func TestExchange(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, redirectURL, r.PostForm.Get("redirect_uri"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-1","refresh_token":"rt-1","expires_in":3600,"token_type":"Bearer"}`)
	})

	before := time.Now()
	tokens, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at-1", tokens.AccessToken)
	assert.Equal(t, "rt-1", tokens.RefreshToken)
	assert.WithinDuration(t, before.Add(time.Hour), tokens.Expiry, 5*time.Second)
}

func TestExchange_ProviderRejects(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"redirect_uri_mismatch","error_description":"Bad Request: redirect_uri mismatch"}`)
	})

	_, err := p.Exchange(context.Background(), "code")
	var pe *model.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusBadRequest, pe.Status)
	assert.Equal(t, "Bad Request: redirect_uri mismatch", pe.Description)
	assert.Contains(t, err.Error(), "token exchange")
}

func TestRefresh(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "rt-1", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-2","expires_in":1800,"token_type":"Bearer"}`)
	})

	tokens, err := p.Refresh(context.Background(), "rt-1")
	require.NoError(t, err)
	assert.Equal(t, "at-2", tokens.AccessToken)
	assert.Empty(t, tokens.RefreshToken, "unrotated refresh token is not reported")
}

func TestRefresh_Rotated(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-2","refresh_token":"rt-2","expires_in":1800,"token_type":"Bearer"}`)
	})

	tokens, err := p.Refresh(context.Background(), "rt-1")
	require.NoError(t, err)
	assert.Equal(t, "rt-2", tokens.RefreshToken)
}

func TestIdentify(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	id, err := p.Identify(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, "acct-for-at", id.AccountID)
	assert.Equal(t, model.ProviderYouTube, p.Name())
}
